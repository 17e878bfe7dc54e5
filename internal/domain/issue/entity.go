package issue

import (
	"time"
)

type Type string

const (
	TypeWarning  Type = "WARNING"
	TypePenalty  Type = "PENALTY"
	TypeIncident Type = "INCIDENT"
)

func IsValidType(s string) bool {
	switch Type(s) {
	case TypeWarning, TypePenalty, TypeIncident:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

func IsValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusResolved Status = "RESOLVED"
)

// Issue is a warning, penalty or incident raised against an employee.
// A PENALTY carries a point deduction applied when the issue is created.
type Issue struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	Type           Type
	Severity       Severity
	Title          string
	Description    string
	PenaltyPoints  *int
	Status         Status
	RaisedBy       string
	ResolvedBy     *string
	ResolvedAt     *time.Time
	ResolutionNote *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields for list reads.
	EmployeeName *string
}
