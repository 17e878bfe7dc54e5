package asset

import (
	"context"
)

// AssetService defines business logic for equipment tracking.
type AssetService interface {
	// Create registers a new asset as AVAILABLE.
	Create(ctx context.Context, req CreateRequest) (Response, error)

	// Get fetches one asset.
	Get(ctx context.Context, id string) (Response, error)

	// Assign hands an AVAILABLE asset to an employee.
	Assign(ctx context.Context, id string, req AssignRequest) (Response, error)

	// Return takes an ASSIGNED asset back, making it AVAILABLE again.
	Return(ctx context.Context, id string) (Response, error)

	// Retire removes an asset from circulation permanently.
	Retire(ctx context.Context, id string) (Response, error)

	// List pages through company assets.
	List(ctx context.Context, filter Filter) (ListResponse, error)
}

type ListResponse struct {
	Assets []Response `json:"assets"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}
