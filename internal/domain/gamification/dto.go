package gamification

import (
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type AwardRequest struct {
	EmployeeID string `json:"employee_id"`
	Currency   string `json:"currency"`
	Amount     int    `json:"amount"`
	Category   string `json:"category"`
	Reason     string `json:"reason"`
}

func (r *AwardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !IsValidCurrency(r.Currency) {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency must be POINTS or COINS",
		})
	}

	if r.Amount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be a positive integer",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SpendRequest shares the shape of AwardRequest; the service applies the
// balance check and writes the negative entry.
type SpendRequest = AwardRequest

type LedgerEntryResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Currency        string  `json:"currency"`
	Amount          int     `json:"amount"`
	Category        string  `json:"category"`
	Reason          string  `json:"reason"`
	CorrelationType *string `json:"correlation_type,omitempty"`
	CorrelationID   *string `json:"correlation_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func ToLedgerEntryResponse(e LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Currency:   string(e.Currency),
		Amount:     e.Amount,
		Category:   string(e.Category),
		Reason:     e.Reason,
		CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.CorrelationType != nil {
		ct := string(*e.CorrelationType)
		resp.CorrelationType = &ct
	}
	resp.CorrelationID = e.CorrelationID
	return resp
}

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Points     int    `json:"points"`
	Coins      int    `json:"coins"`
}

type LedgerFilter struct {
	Currency  *string `json:"currency,omitempty"`
	Category  *string `json:"category,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type CreateAchievementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PointReward int    `json:"point_reward"`
	Metric      string `json:"metric"`
	Threshold   int    `json:"threshold"`
	PeriodDays  int    `json:"period_days"`
}

func (r *CreateAchievementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.PointReward <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "point_reward",
			Message: "point_reward must be a positive integer",
		})
	}

	if !IsValidMetric(r.Metric) {
		errs = append(errs, validator.ValidationError{
			Field:   "metric",
			Message: "metric must be PUNCTUAL_DAYS, PRESENT_DAYS or POINTS_EARNED",
		})
	}

	if r.Threshold <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "threshold",
			Message: "threshold must be a positive integer",
		})
	}

	if r.PeriodDays <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "period_days",
			Message: "period_days must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AchievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PointReward int    `json:"point_reward"`
	Metric      string `json:"metric"`
	Threshold   int    `json:"threshold"`
	PeriodDays  int    `json:"period_days"`
	Active      bool   `json:"active"`
}

func ToAchievementResponse(a Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Category:    a.Category,
		PointReward: a.PointReward,
		Metric:      string(a.Metric),
		Threshold:   a.Threshold,
		PeriodDays:  a.PeriodDays,
		Active:      a.Active,
	}
}

// EvaluationResult is returned by achievement evaluation: how far along the
// employee is (capped at 100) and whether this call performed the unlock.
type EvaluationResult struct {
	AchievementID string `json:"achievement_id"`
	Progress      int    `json:"progress"`
	Unlocked      bool   `json:"unlocked"`
	UnlockedNow   bool   `json:"unlocked_now"`
}

// AchievementProgressResponse is one row of an employee's achievement page:
// the achievement definition plus the employee's standing against it.
type AchievementProgressResponse struct {
	Achievement AchievementResponse `json:"achievement"`
	Progress    int                 `json:"progress"`
	Unlocked    bool                `json:"unlocked"`
	UnlockedAt  *string             `json:"unlocked_at,omitempty"`
}

type ListLedgerResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}
