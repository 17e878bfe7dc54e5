package reward

import (
	"context"
)

// RewardRepository persists rewards. GetByIDForUpdate locks the reward row
// so concurrent redemptions cannot both pass the stock check.
type RewardRepository interface {
	Create(ctx context.Context, rw Reward) (Reward, error)
	GetByID(ctx context.Context, id string, companyID string) (Reward, error)
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (Reward, error)
	Update(ctx context.Context, rw Reward) error
	DecrementStock(ctx context.Context, id string, companyID string) error
	IncrementStock(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, companyID string, activeOnly bool) ([]Reward, error)
}

type RedemptionRepository interface {
	Create(ctx context.Context, rd Redemption) (Redemption, error)
	GetByID(ctx context.Context, id string, companyID string) (Redemption, error)
	UpdateStatus(ctx context.Context, rd Redemption) error
	List(ctx context.Context, filter RedemptionFilter, companyID string) ([]Redemption, int64, error)
}
