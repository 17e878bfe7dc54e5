package issue

import (
	"context"
)

// IssueRepository defines data access methods for issues.
type IssueRepository interface {
	Create(ctx context.Context, iss Issue) (Issue, error)
	GetByID(ctx context.Context, id string, companyID string) (Issue, error)
	Resolve(ctx context.Context, iss Issue) error
	List(ctx context.Context, filter Filter, companyID string) ([]Issue, int64, error)
}
