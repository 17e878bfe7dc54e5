package issue

import (
	"context"
)

// IssueService defines business logic for warnings, penalties and incidents.
type IssueService interface {
	// Create records an issue. A PENALTY deducts points in the same
	// transaction, clamped to the employee's available balance.
	Create(ctx context.Context, req CreateRequest) (Response, error)

	// Resolve closes an OPEN issue.
	Resolve(ctx context.Context, id string, req ResolveRequest) (Response, error)

	// Get fetches one issue.
	Get(ctx context.Context, id string) (Response, error)

	// List pages through company issues.
	List(ctx context.Context, filter Filter) (ListResponse, error)
}

type ListResponse struct {
	Issues []Response `json:"issues"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}
