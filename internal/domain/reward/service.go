package reward

import (
	"context"
)

// RewardService defines business logic for rewards and redemptions.
type RewardService interface {
	// CreateReward registers a redeemable reward.
	CreateReward(ctx context.Context, req CreateRequest) (Response, error)

	// UpdateReward applies partial changes to a reward.
	UpdateReward(ctx context.Context, id string, req UpdateRequest) (Response, error)

	// GetReward fetches one reward.
	GetReward(ctx context.Context, id string) (Response, error)

	// ListRewards returns the catalogue; employees see active rewards only.
	ListRewards(ctx context.Context, activeOnly bool) ([]Response, error)

	// Redeem spends the authenticated employee's balance on a reward. Balance
	// check, ledger debit, stock decrement and redemption row commit or roll
	// back together.
	Redeem(ctx context.Context, rewardID string) (RedemptionResponse, error)

	// ApproveRedemption moves PENDING -> APPROVED.
	ApproveRedemption(ctx context.Context, id string, req ProcessRequest) (RedemptionResponse, error)

	// RejectRedemption moves PENDING -> REJECTED, refunding the ledger and
	// restoring stock in the same transaction.
	RejectRedemption(ctx context.Context, id string, req ProcessRequest) (RedemptionResponse, error)

	// FulfillRedemption moves APPROVED -> FULFILLED.
	FulfillRedemption(ctx context.Context, id string) (RedemptionResponse, error)

	// ListRedemptions pages through company redemptions (admin).
	ListRedemptions(ctx context.Context, filter RedemptionFilter) (ListRedemptionsResponse, error)

	// ListMyRedemptions pages through the authenticated employee's requests.
	ListMyRedemptions(ctx context.Context, filter RedemptionFilter) (ListRedemptionsResponse, error)
}

type ListRedemptionsResponse struct {
	Redemptions []RedemptionResponse `json:"redemptions"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}
