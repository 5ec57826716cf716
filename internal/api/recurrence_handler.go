// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service/recurrence"
	"github.com/taskhive/taskhive-api/internal/store"
)

// RecurrenceHandler handles recurring-schedule HTTP requests: schedule
// mutations, occurrence listings, and the manual sweep trigger.
type RecurrenceHandler struct {
	sweeper *recurrence.Sweeper
	mutator *recurrence.Mutator
	tasks   store.TaskStore
	logger  *slog.Logger
}

// NewRecurrenceHandler creates a new RecurrenceHandler.
func NewRecurrenceHandler(
	sweeper *recurrence.Sweeper,
	mutator *recurrence.Mutator,
	tasks store.TaskStore,
	logger *slog.Logger,
) *RecurrenceHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RecurrenceHandler")
	}

	return &RecurrenceHandler{
		sweeper: sweeper,
		mutator: mutator,
		tasks:   tasks,
		logger:  logger.With(slog.String("component", "recurrence_handler")),
	}
}

// TriggerSweep handles POST /maintenance/sweep requests.
// It runs one maintenance sweep synchronously and returns its summary. A
// request arriving while a sweep is already running gets 409 Conflict.
func (h *RecurrenceHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	log.Debug("manual sweep triggered")

	summary, err := h.sweeper.RunMaintenanceSweep(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// UpdateDueDate handles PUT /tasks/{id}/due-date requests.
// For a recurring definition the change deletes its future occurrences and
// regenerates them from the new date; for any other task it is a no-op with
// zero counts.
func (h *RecurrenceHandler) UpdateDueDate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	var req UpdateDueDateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode due date request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "due_date is required")
		return
	}

	result, err := h.mutator.OnDueDateChanged(r.Context(), taskID, req.DueDate)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("due date updated",
		slog.String("task_id", taskID.String()),
		slog.Int64("deleted", result.DeletedCount),
		slog.Int("generated", result.GeneratedCount))
	shared.RespondWithJSON(w, r, http.StatusOK, MutationResponse{
		DeletedCount:   result.DeletedCount,
		GeneratedCount: result.GeneratedCount,
	})
}

// UpdateRepeatKind handles PUT /tasks/{id}/repeat requests.
// Switching a task's repeat kind rebuilds its upcoming occurrences under
// the new cadence, or removes them when the kind becomes none.
func (h *RecurrenceHandler) UpdateRepeatKind(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	var req UpdateRepeatKindRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode repeat kind request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"repeat_kind must be one of none, daily, weekly, monthly")
		return
	}

	result, err := h.mutator.OnRepeatKindChanged(r.Context(), taskID, domain.RepeatKind(req.RepeatKind))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("repeat kind updated",
		slog.String("task_id", taskID.String()),
		slog.String("repeat_kind", req.RepeatKind),
		slog.Int64("deleted", result.DeletedCount),
		slog.Int("generated", result.GeneratedCount))
	shared.RespondWithJSON(w, r, http.StatusOK, MutationResponse{
		DeletedCount:   result.DeletedCount,
		GeneratedCount: result.GeneratedCount,
	})
}

// ListOccurrences handles GET /tasks/{id}/occurrences requests.
// It returns the occurrences generated from the given recurring definition,
// ordered by due date.
func (h *RecurrenceHandler) ListOccurrences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	// The task must exist; listing occurrences of a missing rule is 404,
	// not an empty list.
	if _, err := h.tasks.GetByID(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	occs, err := h.tasks.FindOccurrences(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("listed occurrences",
		slog.String("task_id", taskID.String()),
		slog.Int("count", len(occs)))
	shared.RespondWithJSON(w, r, http.StatusOK, OccurrenceListResponse{
		RuleID:      taskID.String(),
		Occurrences: tasksToResponses(occs),
	})
}
