package asset

import (
	"time"
)

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusAssigned  Status = "ASSIGNED"
	StatusRetired   Status = "RETIRED"
)

// Asset is a piece of company equipment tracked through assignment.
type Asset struct {
	ID           string
	CompanyID    string
	Tag          string
	Name         string
	Category     string
	SerialNumber *string
	Status       Status
	AssignedTo   *string
	AssignedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined field for list reads.
	AssigneeName *string
}
