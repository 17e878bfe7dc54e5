package issue

import (
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	EmployeeID    string `json:"employee_id"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	PenaltyPoints *int   `json:"penalty_points,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !IsValidType(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be WARNING, PENALTY or INCIDENT",
		})
	}

	if !IsValidSeverity(r.Severity) {
		errs = append(errs, validator.ValidationError{
			Field:   "severity",
			Message: "severity must be LOW, MEDIUM or HIGH",
		})
	}

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if Type(r.Type) == TypePenalty {
		if r.PenaltyPoints == nil || *r.PenaltyPoints <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "penalty_points",
				Message: "penalty_points must be a positive integer for PENALTY issues",
			})
		}
	} else if r.PenaltyPoints != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "penalty_points",
			Message: "penalty_points only applies to PENALTY issues",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResolveRequest struct {
	Note *string `json:"note,omitempty"`
}

type Filter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Response struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	PenaltyPoints  *int    `json:"penalty_points,omitempty"`
	Status         string  `json:"status"`
	RaisedBy       string  `json:"raised_by"`
	ResolvedBy     *string `json:"resolved_by,omitempty"`
	ResolvedAt     *string `json:"resolved_at,omitempty"`
	ResolutionNote *string `json:"resolution_note,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func ToResponse(i Issue) Response {
	resp := Response{
		ID:             i.ID,
		EmployeeID:     i.EmployeeID,
		EmployeeName:   i.EmployeeName,
		Type:           string(i.Type),
		Severity:       string(i.Severity),
		Title:          i.Title,
		Description:    i.Description,
		PenaltyPoints:  i.PenaltyPoints,
		Status:         string(i.Status),
		RaisedBy:       i.RaisedBy,
		ResolvedBy:     i.ResolvedBy,
		ResolutionNote: i.ResolutionNote,
		CreatedAt:      i.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if i.ResolvedAt != nil {
		s := i.ResolvedAt.Format("2006-01-02 15:04:05")
		resp.ResolvedAt = &s
	}
	return resp
}
