package team

import (
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Name     string  `json:"name"`
	LeaderID *string `json:"leader_id,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	LeaderID *string `json:"leader_id,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Response struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	LeaderID    *string `json:"leader_id,omitempty"`
	LeaderName  *string `json:"leader_name,omitempty"`
	MemberCount *int    `json:"member_count,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func ToResponse(t Team) Response {
	return Response{
		ID:          t.ID,
		Name:        t.Name,
		LeaderID:    t.LeaderID,
		LeaderName:  t.LeaderName,
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
