package issue

import "errors"

// Issue domain errors
var (
	ErrIssueNotFound   = errors.New("issue not found")
	ErrAlreadyResolved = errors.New("issue has already been resolved")
)
