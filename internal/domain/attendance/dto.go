package attendance

import (
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

type KioskCheckRequest struct {
	EmployeeCode string `json:"employee_code"`
	PIN          string `json:"pin"`
}

func (r *KioskCheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must look like OPS-0042",
		})
	}

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

// EditRequest carries an admin correction. Nil fields are untouched; the
// service diffs against the stored record and writes one history row per
// changed field.
type EditRequest struct {
	CheckIn  *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut *string `json:"check_out,omitempty"` // RFC3339
	Status   *string `json:"status,omitempty"`
	Reason   string  `json:"reason"`
}

func (r *EditRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "an edit reason is required",
		})
	}

	if r.CheckIn != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckIn); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.CheckOut != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckOut); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an RFC3339 timestamp",
			})
		}
	}

	if r.Status != nil && !IsValidStatus(*r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be PRESENT, ABSENT, LATE, HALF_DAY or WFH_APPROVED",
		})
	}

	if r.CheckIn == nil && r.CheckOut == nil && r.Status == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of check_in, check_out, status is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Filter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	TeamID     *string `json:"team_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Response struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in,omitempty"`
	CheckOut     *string `json:"check_out,omitempty"`
	WorkMinutes  *int    `json:"work_minutes,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func ToResponse(a Attendance) Response {
	return Response{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		EmployeeCode: a.EmployeeCode,
		Date:         a.Date.Format("2006-01-02"),
		CheckIn:      timePtrToString(a.CheckIn),
		CheckOut:     timePtrToString(a.CheckOut),
		WorkMinutes:  a.WorkMinutes,
		BreakMinutes: a.BreakMinutes,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

type BreakResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	StartedAt       string  `json:"started_at"`
	EndedAt         *string `json:"ended_at,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Active          bool    `json:"active"`
}

func ToBreakResponse(b Break) BreakResponse {
	return BreakResponse{
		ID:              b.ID,
		EmployeeID:      b.EmployeeID,
		StartedAt:       b.StartedAt.Format("2006-01-02 15:04:05"),
		EndedAt:         timePtrToString(b.EndedAt),
		DurationMinutes: b.DurationMinutes,
		Active:          b.Active,
	}
}

type EditHistoryResponse struct {
	ID       string  `json:"id"`
	Field    string  `json:"field"`
	OldValue *string `json:"old_value,omitempty"`
	NewValue *string `json:"new_value,omitempty"`
	EditedBy string  `json:"edited_by"`
	Reason   string  `json:"reason"`
	EditedAt string  `json:"edited_at"`
}

func ToEditHistoryResponse(h EditHistory) EditHistoryResponse {
	return EditHistoryResponse{
		ID:       h.ID,
		Field:    h.Field,
		OldValue: h.OldValue,
		NewValue: h.NewValue,
		EditedBy: h.EditedBy,
		Reason:   h.Reason,
		EditedAt: h.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}
