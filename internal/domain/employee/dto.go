package employee

import (
	"fmt"

	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	TeamID       *string `json:"team_id,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must look like OPS-0042",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is invalid",
		})
	}

	if !IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be EMPLOYEE, TEAMLEADER or ADMIN",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkImportRequest creates many employees in one transaction.
type BulkImportRequest struct {
	Employees []CreateRequest `json:"employees"`
}

func (r *BulkImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Employees) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employees",
			Message: "at least one employee is required",
		})
	}

	for i, emp := range r.Employees {
		if err := emp.Validate(); err != nil {
			if rowErrs, ok := err.(validator.ValidationErrors); ok {
				for _, re := range rowErrs {
					errs = append(errs, validator.ValidationError{
						Field:   fmt.Sprintf("employees[%d].%s", i, re.Field),
						Message: re.Message,
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be blank",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is invalid",
		})
	}

	if r.Role != nil && !IsValidRole(*r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be EMPLOYEE, TEAMLEADER or ADMIN",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetPINRequest struct {
	PIN string `json:"pin"`
}

func (r *SetPINRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4-6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LinkIdentityRequest struct {
	Code string `json:"code"`
}

func (r *LinkIdentityRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Filter struct {
	Search *string `json:"search,omitempty"`
	Role   *string `json:"role,omitempty"`
	TeamID *string `json:"team_id,omitempty"`
	Active *bool   `json:"active,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Response struct {
	ID               string  `json:"id"`
	EmployeeCode     string  `json:"employee_code"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	Active           bool    `json:"active"`
	TeamID           *string `json:"team_id,omitempty"`
	TeamName         *string `json:"team_name,omitempty"`
	IdentityProvider *string `json:"identity_provider,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// ToResponse shapes an entity for the API. PIN hashes and identity subjects
// never leave the service layer.
func ToResponse(e Employee) Response {
	return Response{
		ID:               e.ID,
		EmployeeCode:     e.EmployeeCode,
		FullName:         e.FullName,
		Email:            e.Email,
		Role:             string(e.Role),
		Active:           e.Active,
		TeamID:           e.TeamID,
		TeamName:         e.TeamName,
		IdentityProvider: e.IdentityProvider,
		CreatedAt:        e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
