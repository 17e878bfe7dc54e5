package reward

import (
	"github.com/shopspring/decimal"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
	Cost        int     `json:"cost"`
	CashValue   *string `json:"cash_value,omitempty"` // decimal string, e.g. "150000.00"
	Stock       *int    `json:"stock,omitempty"`      // nil = unlimited
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !gamification.IsValidCurrency(r.Currency) {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency must be POINTS or COINS",
		})
	}

	if r.Cost <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "cost",
			Message: "cost must be a positive integer",
		})
	}

	if r.CashValue != nil {
		if _, err := decimal.NewFromString(*r.CashValue); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "cash_value",
				Message: "cash_value must be a decimal string",
			})
		}
	}

	if r.Stock != nil && *r.Stock < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "stock",
			Message: "stock must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Cost        *int    `json:"cost,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be blank",
		})
	}

	if r.Cost != nil && *r.Cost <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "cost",
			Message: "cost must be a positive integer",
		})
	}

	if r.Stock != nil && *r.Stock < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "stock",
			Message: "stock must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessRequest struct {
	Note *string `json:"note,omitempty"`
}

type Response struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
	Cost        int     `json:"cost"`
	CashValue   *string `json:"cash_value,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Active      bool    `json:"active"`
}

func ToResponse(rw Reward) Response {
	resp := Response{
		ID:          rw.ID,
		Name:        rw.Name,
		Description: rw.Description,
		Currency:    string(rw.Currency),
		Cost:        rw.Cost,
		Stock:       rw.Stock,
		Active:      rw.Active,
	}
	if rw.CashValue != nil {
		s := rw.CashValue.StringFixed(2)
		resp.CashValue = &s
	}
	return resp
}

type RedemptionResponse struct {
	ID           string  `json:"id"`
	RewardID     string  `json:"reward_id"`
	RewardName   *string `json:"reward_name,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Currency     string  `json:"currency"`
	Cost         int     `json:"cost"`
	Status       string  `json:"status"`
	Note         *string `json:"note,omitempty"`
	ProcessedBy  *string `json:"processed_by,omitempty"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func ToRedemptionResponse(rd Redemption) RedemptionResponse {
	resp := RedemptionResponse{
		ID:           rd.ID,
		RewardID:     rd.RewardID,
		RewardName:   rd.RewardName,
		EmployeeID:   rd.EmployeeID,
		EmployeeName: rd.EmployeeName,
		Currency:     string(rd.Currency),
		Cost:         rd.Cost,
		Status:       string(rd.Status),
		Note:         rd.Note,
		ProcessedBy:  rd.ProcessedBy,
		CreatedAt:    rd.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if rd.ProcessedAt != nil {
		s := rd.ProcessedAt.Format("2006-01-02 15:04:05")
		resp.ProcessedAt = &s
	}
	return resp
}

type RedemptionFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}
