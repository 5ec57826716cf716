// Package recurrence implements the recurring-task engine: materializing
// occurrence records from recurring definitions, topping them up through the
// maintenance sweep, and keeping the materialized set consistent when a
// definition's schedule changes.
package recurrence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/domain/recur"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// DefaultMaxIterations caps the per-rule window walk when no explicit limit
// is configured. Generous relative to any sane window: a daily rule three
// months behind still fits.
const DefaultMaxIterations = 100

// Materializer creates occurrence records for a recurring definition,
// exactly once per calendar date.
type Materializer struct {
	tasks         store.TaskStore
	maxIterations int
	logger        *slog.Logger
}

// NewMaterializer creates a new Materializer.
// It returns an error if the task store is nil. A non-positive
// maxIterations falls back to DefaultMaxIterations.
func NewMaterializer(tasks store.TaskStore, maxIterations int, logger *slog.Logger) (*Materializer, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}

	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Materializer{
		tasks:         tasks,
		maxIterations: maxIterations,
		logger:        logger.With(slog.String("component", "materializer")),
	}, nil
}

// Materialize creates one occurrence of rule for each target date that does
// not already have one, comparing by calendar date and ignoring time of day.
// Each created occurrence copies the rule's detail fields and carries the
// target due date. The returned slice holds only the occurrences this call
// created.
//
// Idempotence: target dates already covered by an existing occurrence are
// skipped, and a storage-level duplicate conflict (a concurrent call winning
// the race) is treated as a benign no-op. If any creation fails for another
// reason, occurrences created earlier in the same batch are deleted
// best-effort before the error is returned, so a failure never leaves a
// partial series behind.
func (m *Materializer) Materialize(
	ctx context.Context,
	rule *domain.Task,
	targets []time.Time,
) ([]*domain.Task, error) {
	if rule == nil || !rule.IsRecurringDefinition() {
		return nil, domain.ErrNotRecurring
	}

	existing, err := m.tasks.FindOccurrences(ctx, rule.ID)
	if err != nil {
		return nil, NewServiceError("materialize", "failed to load existing occurrences", err)
	}

	return m.materialize(ctx, rule, targets, existing)
}

// materialize is the shared creation path for Materialize and EnsureThrough,
// working against an already-loaded set of existing occurrences.
func (m *Materializer) materialize(
	ctx context.Context,
	rule *domain.Task,
	targets []time.Time,
	existing []*domain.Task,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, m.logger).With(
		slog.String("rule_id", rule.ID.String()))

	var created []*domain.Task
	for _, target := range targets {
		if coveredOn(existing, target) || coveredOn(created, target) {
			continue
		}

		occ, err := domain.NewOccurrence(rule, target)
		if err != nil {
			m.cleanup(ctx, log, created)
			return nil, NewServiceError("materialize", "failed to build occurrence", err)
		}

		err = m.tasks.CreateOccurrence(ctx, occ)
		if errors.Is(err, store.ErrDuplicate) {
			// A concurrent materialization won the race for this date; the
			// occurrence exists, which is all that matters.
			log.Debug("occurrence already materialized concurrently",
				slog.Time("due_date", target))
			continue
		}
		if err != nil {
			log.Error("failed to create occurrence, rolling back batch",
				slog.Time("due_date", target),
				slog.Int("created_so_far", len(created)),
				slog.String("error", err.Error()))
			m.cleanup(ctx, log, created)
			return nil, NewServiceError("materialize", "failed to create occurrence", err)
		}

		created = append(created, occ)
	}

	if len(created) > 0 {
		log.Info("materialized occurrences",
			slog.Int("count", len(created)))
	}

	return created, nil
}

// cleanup deletes the occurrences created earlier in a failed batch.
// Best effort: a cleanup failure is logged but never masks the original
// creation error.
func (m *Materializer) cleanup(ctx context.Context, log *slog.Logger, created []*domain.Task) {
	for _, occ := range created {
		if err := m.tasks.Delete(ctx, occ.ID); err != nil {
			log.Error("failed to clean up occurrence after batch failure",
				slog.String("occurrence_id", occ.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// EnsureThrough walks rule's schedule forward and materializes every
// occurrence missing up to and including the horizon's calendar date. The
// walk starts from the most recent existing occurrence, or from the rule's
// own due date when none exist, and compares against the horizon by
// calendar date only — a rule whose time of day falls after the horizon's
// time of day is still inside the window when its date is.
//
// Both the maintenance sweep and schedule mutations top up through this
// single path. The walk is bounded by the configured iteration cap and
// aborts if the schedule ever fails to advance, so a malformed rule cannot
// loop forever.
func (m *Materializer) EnsureThrough(
	ctx context.Context,
	rule *domain.Task,
	horizon time.Time,
) ([]*domain.Task, error) {
	if rule == nil || !rule.IsRecurringDefinition() {
		return nil, domain.ErrNotRecurring
	}

	existing, err := m.tasks.FindOccurrences(ctx, rule.ID)
	if err != nil {
		return nil, NewServiceError("ensure_through", "failed to load existing occurrences", err)
	}

	latest := rule.DueDate
	for _, occ := range existing {
		if occ.DueDate.After(latest) {
			latest = occ.DueDate
		}
	}

	var missing []time.Time
	current := latest
	for i := 0; ; i++ {
		if i >= m.maxIterations {
			return nil, NewServiceError("ensure_through", "window walk exceeded iteration cap", ErrIterationLimit)
		}

		next, err := recur.Next(current, rule.RepeatKind)
		if err != nil {
			return nil, NewServiceError("ensure_through", "failed to compute next occurrence", err)
		}
		if !next.After(current) {
			return nil, NewServiceError("ensure_through", "next occurrence did not advance", ErrScheduleNotAdvancing)
		}
		if !recur.DayOnOrBefore(next, horizon) {
			break
		}

		missing = append(missing, next)
		current = next
	}

	return m.materialize(ctx, rule, missing, existing)
}

// coveredOn reports whether any task in the set is due on the same calendar
// date as target.
func coveredOn(tasks []*domain.Task, target time.Time) bool {
	for _, t := range tasks {
		if recur.SameDay(t.DueDate, target) {
			return true
		}
	}
	return false
}
