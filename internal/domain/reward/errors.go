package reward

import "errors"

// Reward domain errors
var (
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRewardInactive     = errors.New("reward is not active")
	ErrOutOfStock         = errors.New("reward is out of stock")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrAlreadyProcessed   = errors.New("redemption has already been processed")
	ErrNotApproved        = errors.New("redemption must be approved before fulfillment")
)
