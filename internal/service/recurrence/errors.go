package recurrence

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrSweepInProgress is returned when a sweep trigger arrives while a
	// previous run is still executing. The trigger is skipped, not queued.
	ErrSweepInProgress = errors.New("maintenance sweep already in progress")

	// ErrScheduleNotAdvancing is returned when expanding a rule's schedule
	// produces a date that does not move forward. It guards the window walk
	// against spinning on a malformed rule.
	ErrScheduleNotAdvancing = errors.New("schedule failed to advance")

	// ErrIterationLimit is returned when the window walk exceeds its
	// configured iteration cap before reaching the window end.
	ErrIterationLimit = errors.New("iteration limit reached while expanding schedule")

	// ErrInvalidDueDate is returned when a due-date mutation carries the
	// zero time.
	ErrInvalidDueDate = errors.New("new due date cannot be the zero value")
)

// ServiceError is a custom error type for recurrence service errors.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recurrence %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("recurrence %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
