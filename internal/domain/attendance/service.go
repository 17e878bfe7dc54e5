package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
type AttendanceService interface {
	// CheckIn opens today's attendance record for the authenticated employee.
	CheckIn(ctx context.Context) (Response, error)

	// CheckOut closes today's record, computes work minutes and evaluates
	// the punctuality bonus.
	CheckOut(ctx context.Context) (Response, error)

	// KioskCheck handles the shared-terminal flow: employee code + PIN,
	// toggling between check-in and check-out. The terminal authenticates
	// with its own credential, which pins the company scope.
	KioskCheck(ctx context.Context, req KioskCheckRequest) (Response, error)

	// StartBreak opens a break session; at most one may be active.
	StartBreak(ctx context.Context) (BreakResponse, error)

	// EndBreak closes the active break and accumulates break minutes.
	EndBreak(ctx context.Context) (BreakResponse, error)

	// GetMyAttendance pages through the authenticated employee's records.
	GetMyAttendance(ctx context.Context, filter Filter) (ListResponse, error)

	// ListAttendance pages through company records (admin/team leader).
	ListAttendance(ctx context.Context, filter Filter) (ListResponse, error)

	// GetAttendance fetches one record by id.
	GetAttendance(ctx context.Context, id string) (Response, error)

	// EditAttendance applies an admin correction, writing one history row
	// per changed field, then re-evaluates the punctuality bonus.
	EditAttendance(ctx context.Context, id string, req EditRequest) (Response, error)

	// GetEditHistory returns the audit trail for one record.
	GetEditHistory(ctx context.Context, id string) ([]EditHistoryResponse, error)
}

type ListResponse struct {
	Records []Response `json:"records"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
}
