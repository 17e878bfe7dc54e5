package team

import (
	"time"
)

type Team struct {
	ID        string
	CompanyID string
	Name      string
	LeaderID  *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields for list reads.
	LeaderName  *string
	MemberCount *int
}
