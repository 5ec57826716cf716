package api

import (
	"errors"
	"net/http"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/domain/recur"
	"github.com/taskhive/taskhive-api/internal/service/recurrence"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Bad request errors
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidRepeatKind),
		errors.Is(err, recurrence.ErrInvalidDueDate),
		errors.Is(err, recur.ErrInvalidBase),
		errors.Is(err, recur.ErrInvalidKind),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// State conflicts: the request is well-formed but the task cannot
	// carry a recurrence schedule.
	case errors.Is(err, domain.ErrSubtaskRecurrence),
		errors.Is(err, domain.ErrRecurringHasParent),
		errors.Is(err, domain.ErrTaskDueDateZero),
		errors.Is(err, domain.ErrNotRecurring):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, recurrence.ErrSweepInProgress):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Field + " " + validationErr.Message

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid task ID"

	case errors.Is(err, domain.ErrInvalidRepeatKind):
		return "Invalid repeat kind"

	case errors.Is(err, recurrence.ErrInvalidDueDate):
		return "Invalid due date"

	case errors.Is(err, recur.ErrInvalidBase),
		errors.Is(err, recur.ErrInvalidKind):
		return "Invalid recurrence schedule"

	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.Is(err, domain.ErrSubtaskRecurrence):
		return "Subtasks cannot repeat"

	case errors.Is(err, domain.ErrRecurringHasParent):
		return "Generated occurrences cannot repeat on their own"

	case errors.Is(err, domain.ErrTaskDueDateZero):
		return "A repeating task needs a due date"

	case errors.Is(err, domain.ErrNotRecurring):
		return "Task is not a repeating task"

	case errors.Is(err, store.ErrDuplicate):
		return "Occurrence already exists"

	case errors.Is(err, recurrence.ErrSweepInProgress):
		return "A maintenance sweep is already running"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	default:
		return "An unexpected error occurred"
	}
}
