package task

import (
	"errors"
	"fmt"
)

var (
	// ErrTitleRequired is returned when a title is empty after trimming.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid status, must be one of: pending, done")
	// ErrInvalidDate is returned when a due date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrNotFound is returned by callers that need an error for an unknown id.
	ErrNotFound = errors.New("task not found")
	// ErrIDsExhausted is returned by Add once the largest id is in use.
	ErrIDsExhausted = errors.New("no task ids left")
)

// ValidationError reports bad user input for a single field.
type ValidationError struct {
	Field string // Field that failed validation
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

