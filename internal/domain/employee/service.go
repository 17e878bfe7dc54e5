package employee

import (
	"context"
)

// EmployeeService defines business logic for employee management.
type EmployeeService interface {
	// Create registers one employee.
	Create(ctx context.Context, req CreateRequest) (Response, error)

	// BulkImport registers many employees in one transaction; any failing
	// row rolls back the whole batch.
	BulkImport(ctx context.Context, req BulkImportRequest) ([]Response, error)

	// Get fetches one employee by id.
	Get(ctx context.Context, id string) (Response, error)

	// GetMe fetches the authenticated employee's own profile.
	GetMe(ctx context.Context) (Response, error)

	// Update applies partial changes to an employee.
	Update(ctx context.Context, id string, req UpdateRequest) (Response, error)

	// SetPIN hashes and stores the kiosk PIN for the authenticated employee.
	SetPIN(ctx context.Context, req SetPINRequest) error

	// LinkIdentityURL starts the OAuth2 flow for linking a Google account.
	LinkIdentityURL(ctx context.Context, userAgent string) (string, error)

	// LinkIdentity completes the OAuth2 flow: exchanges the code and binds
	// the Google subject to the authenticated employee.
	LinkIdentity(ctx context.Context, req LinkIdentityRequest) (Response, error)

	// Deactivate marks an employee inactive, keeping history intact.
	Deactivate(ctx context.Context, id string) error

	// Purge hard-deletes an employee and their dependent rows. Deactivate is
	// the normal path; purge exists for data-removal requests.
	Purge(ctx context.Context, id string) error

	// List pages through the company's employees.
	List(ctx context.Context, filter Filter) (ListResponse, error)
}

type ListResponse struct {
	Employees []Response `json:"employees"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}
