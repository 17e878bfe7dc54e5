package asset

import (
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Tag          string  `json:"tag"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SerialNumber *string `json:"serial_number,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Tag) {
		errs = append(errs, validator.ValidationError{
			Field:   "tag",
			Message: "tag is required",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *AssignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Filter struct {
	Status     *string `json:"status,omitempty"`
	Category   *string `json:"category,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Response struct {
	ID           string  `json:"id"`
	Tag          string  `json:"tag"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       string  `json:"status"`
	AssignedTo   *string `json:"assigned_to,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`
	AssignedAt   *string `json:"assigned_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func ToResponse(a Asset) Response {
	resp := Response{
		ID:           a.ID,
		Tag:          a.Tag,
		Name:         a.Name,
		Category:     a.Category,
		SerialNumber: a.SerialNumber,
		Status:       string(a.Status),
		AssignedTo:   a.AssignedTo,
		AssigneeName: a.AssigneeName,
		CreatedAt:    a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.AssignedAt != nil {
		s := a.AssignedAt.Format("2006-01-02 15:04:05")
		resp.AssignedAt = &s
	}
	return resp
}
