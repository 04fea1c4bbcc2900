package employees

import "errors"

// Employee errors.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrMissingFields    = errors.New("name and email are required")
)
