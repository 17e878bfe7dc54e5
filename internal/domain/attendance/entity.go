package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent     Status = "PRESENT"
	StatusAbsent      Status = "ABSENT"
	StatusLate        Status = "LATE"
	StatusHalfDay     Status = "HALF_DAY"
	StatusWFHApproved Status = "WFH_APPROVED"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusWFHApproved:
		return true
	}
	return false
}

// Attendance is one record per (employee, work date); the pair is unique.
// CheckIn/CheckOut are UTC instants; Date is the work date in the portal
// timezone, stored at day granularity.
type Attendance struct {
	ID           string
	EmployeeID   string
	CompanyID    string
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	WorkMinutes  *int
	BreakMinutes *int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields for list/detail reads.
	EmployeeName *string
	EmployeeCode *string
}

// EditHistory is the append-only audit trail of admin edits. The attendance
// row itself is mutated; one history row is written per changed field.
type EditHistory struct {
	ID           string
	AttendanceID string
	Field        string
	OldValue     *string
	NewValue     *string
	EditedBy     string
	Reason       string
	CreatedAt    time.Time
}

// Break is a rest session within a work day. At most one break per employee
// may be active (EndedAt nil) at any instant.
type Break struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	AttendanceID    *string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationMinutes *int
	Active          bool
	CreatedAt       time.Time
}
