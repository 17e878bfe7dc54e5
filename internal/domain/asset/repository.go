package asset

import (
	"context"
)

// AssetRepository defines data access methods for assets.
type AssetRepository interface {
	Create(ctx context.Context, a Asset) (Asset, error)
	GetByID(ctx context.Context, id string, companyID string) (Asset, error)
	Update(ctx context.Context, a Asset) error
	List(ctx context.Context, filter Filter, companyID string) ([]Asset, int64, error)
}
