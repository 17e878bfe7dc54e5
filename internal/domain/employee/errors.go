package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeCodeExists    = errors.New("employee code already exists")
	ErrEmailExists           = errors.New("email already registered in this company")
	ErrEmployeeInactive      = errors.New("employee is deactivated")
	ErrIdentityAlreadyLinked = errors.New("an external identity is already linked to this employee")
	ErrPINNotSet             = errors.New("kiosk PIN has not been set")
	ErrInvalidPIN            = errors.New("invalid kiosk PIN")
)
