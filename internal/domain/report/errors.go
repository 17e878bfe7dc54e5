package report

import "errors"

// Report domain errors
var (
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
)
