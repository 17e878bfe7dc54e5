package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID to prevent cross-tenant data access.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists; used to enforce
	// the one-record-per-day invariant before check-in.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	Update(ctx context.Context, att Attendance) error
	List(ctx context.Context, filter Filter, companyID string) ([]Attendance, int64, error)
	ListForEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]Attendance, error)

	// ListCompletedOnDate returns records with both instants set for one work
	// date, feeding the nightly punctuality batch.
	ListCompletedOnDate(ctx context.Context, date time.Time, companyID string) ([]Attendance, error)

	// BulkCreateAbsences inserts ABSENT records for employees with no record
	// on the given date, skipping conflicts.
	BulkCreateAbsences(ctx context.Context, records []Attendance) error

	AppendEditHistory(ctx context.Context, h EditHistory) error
	ListEditHistory(ctx context.Context, attendanceID string, companyID string) ([]EditHistory, error)
}

// BreakRepository manages break sessions. CreateActive must fail when an
// active break already exists; a partial unique index backs the check.
type BreakRepository interface {
	CreateActive(ctx context.Context, brk Break) (Break, error)
	GetActive(ctx context.Context, employeeID string, companyID string) (*Break, error)
	End(ctx context.Context, brk Break) (Break, error)
	ListForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time, companyID string) ([]Break, error)
}
