package tasks

import "errors"

// Task errors.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status")
	ErrFieldTooLong  = errors.New("title and assigned_to must be at most 255 characters")
)
