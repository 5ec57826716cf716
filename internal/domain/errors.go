// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRepeatKind is returned when a repeat kind is not one of the
	// supported values.
	ErrInvalidRepeatKind = errors.New("invalid repeat kind")

	// ErrSubtaskRecurrence is returned when a subtask is given a non-none
	// repeat kind. Only top-level tasks may recur.
	ErrSubtaskRecurrence = errors.New("subtask cannot have a repeat kind")

	// ErrNotRecurring is returned when a recurrence-only operation is applied
	// to a task that is not an active recurring definition.
	ErrNotRecurring = errors.New("task is not a recurring definition")
)

// ValidationError wraps a field-level validation failure with enough context
// for callers to build a useful message.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
