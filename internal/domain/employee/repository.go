package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employees.
// All methods include companyID to prevent cross-tenant data access.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetByCode(ctx context.Context, code string, companyID string) (Employee, error)
	Update(ctx context.Context, emp Employee) error
	UpdatePINHash(ctx context.Context, id string, companyID string, pinHash string) error
	LinkIdentity(ctx context.Context, id string, companyID string, provider string, subject string) error
	Deactivate(ctx context.Context, id string, companyID string) error
	Purge(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, filter Filter, companyID string) ([]Employee, int64, error)
	ListActive(ctx context.Context, companyID string) ([]Employee, error)
}
