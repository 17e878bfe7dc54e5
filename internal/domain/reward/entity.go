package reward

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
)

// Reward is something an employee can redeem ledger credit for. Stock nil
// means unlimited; a finite stock is decremented atomically with each
// redemption and must never go negative.
type Reward struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Currency    gamification.Currency
	Cost        int
	CashValue   *decimal.Decimal
	Stock       *int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RedemptionStatus string

const (
	StatusPending   RedemptionStatus = "PENDING"
	StatusApproved  RedemptionStatus = "APPROVED"
	StatusRejected  RedemptionStatus = "REJECTED"
	StatusFulfilled RedemptionStatus = "FULFILLED"
)

// Redemption tracks one spend against a reward through its lifecycle:
// PENDING -> APPROVED -> FULFILLED, or PENDING -> REJECTED (refunded).
type Redemption struct {
	ID          string
	RewardID    string
	EmployeeID  string
	CompanyID   string
	Currency    gamification.Currency
	Cost        int
	Status      RedemptionStatus
	Note        *string
	ProcessedBy *string
	ProcessedAt *time.Time
	CreatedAt   time.Time

	// Joined fields for list reads.
	RewardName   *string
	EmployeeName *string
}
