package employee

import (
	"time"
)

type Employee struct {
	ID               string
	CompanyID        string
	TeamID           *string
	EmployeeCode     string
	FullName         string
	Email            string
	Role             Role
	Active           bool
	IdentityProvider *string
	IdentitySubject  *string
	KioskPINHash     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields, populated on detail reads only.
	TeamName *string
}

type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleTeamLeader Role = "TEAMLEADER"
	RoleAdmin      Role = "ADMIN"
)

// IsValidRole reports whether s is one of the portal roles.
func IsValidRole(s string) bool {
	switch Role(s) {
	case RoleEmployee, RoleTeamLeader, RoleAdmin:
		return true
	}
	return false
}
