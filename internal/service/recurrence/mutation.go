package recurrence

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/domain/recur"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/platform/metrics"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MutationResult reports what a schedule mutation changed.
type MutationResult struct {
	DeletedCount   int64 `json:"deleted_count"`
	GeneratedCount int   `json:"generated_count"`
}

// Mutator applies schedule edits to recurring definitions: due-date changes
// and repeat-kind changes. Each mutation deletes the future occurrences the
// old schedule produced and re-materializes the new schedule's lookahead,
// all inside a single transaction so no partial state is ever visible.
type Mutator struct {
	tasks         store.TaskStore
	lookahead     int
	maxIterations int
	logger        *slog.Logger
	now           func() time.Time
	runTx         func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewMutator creates a new Mutator. lookahead is how many occurrences a
// mutation re-materializes from the new schedule.
func NewMutator(
	tasks store.TaskStore,
	lookahead int,
	maxIterations int,
	logger *slog.Logger,
) (*Mutator, error) {
	if tasks == nil {
		return nil, NewServiceError("new_mutator", "task store cannot be nil", nil)
	}
	if lookahead < 1 {
		return nil, NewServiceError("new_mutator", "lookahead must be at least 1", nil)
	}

	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Mutator{
		tasks:         tasks,
		lookahead:     lookahead,
		maxIterations: maxIterations,
		logger:        logger.With(slog.String("component", "mutator")),
		now:           func() time.Time { return time.Now().UTC() },
		runTx:         store.RunInTransaction,
	}, nil
}

// OnDueDateChanged moves a recurring definition's anchor due date.
//
// For a task that is not an active recurring definition this is a no-op
// returning zero counts: plain due-date edits of ordinary tasks do not pass
// through the recurrence engine. Otherwise, inside one transaction, all
// future occurrences (due on or after now) are deleted, the new due date is
// persisted, and the next lookahead occurrences are materialized from it.
func (m *Mutator) OnDueDateChanged(
	ctx context.Context,
	taskID uuid.UUID,
	newDueDate time.Time,
) (*MutationResult, error) {
	log := logger.FromContextOrDefault(ctx, m.logger).With(
		slog.String("task_id", taskID.String()))

	if newDueDate.IsZero() {
		return nil, ErrInvalidDueDate
	}

	task, err := m.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("due_date_change", "failed to load task", err)
	}

	if !task.IsRecurringDefinition() {
		log.Debug("due date change on non-recurring task, nothing to reconcile")
		return &MutationResult{}, nil
	}

	result := &MutationResult{}
	err = m.runTx(ctx, m.tasks.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txTasks := m.tasks.WithTx(tx)

		deleted, err := txTasks.DeleteOccurrencesFrom(ctx, task.ID, m.now())
		if err != nil {
			return NewServiceError("due_date_change", "failed to delete future occurrences", err)
		}
		result.DeletedCount = deleted

		task.DueDate = newDueDate.UTC()
		task.UpdatedAt = m.now()
		if err := txTasks.SaveSchedule(ctx, task); err != nil {
			return NewServiceError("due_date_change", "failed to save schedule", err)
		}

		generated, err := m.rematerialize(ctx, txTasks, task)
		if err != nil {
			return err
		}
		result.GeneratedCount = generated

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("due date changed",
		slog.Time("new_due_date", newDueDate),
		slog.Int64("deleted", result.DeletedCount),
		slog.Int("generated", result.GeneratedCount))

	return result, nil
}

// OnRepeatKindChanged switches a task's repeat kind.
//
// If the task was an active recurring definition its future occurrences are
// deleted first. The new kind is persisted, and when it is a recurring kind
// the next lookahead occurrences are materialized from the task's due date.
// Setting a recurring kind on a subtask fails with
// domain.ErrSubtaskRecurrence; setting one on a generated occurrence fails
// with domain.ErrRecurringHasParent. The whole operation runs in one
// transaction.
func (m *Mutator) OnRepeatKindChanged(
	ctx context.Context,
	taskID uuid.UUID,
	newKind domain.RepeatKind,
) (*MutationResult, error) {
	log := logger.FromContextOrDefault(ctx, m.logger).With(
		slog.String("task_id", taskID.String()))

	if !newKind.IsValid() {
		return nil, domain.ErrInvalidRepeatKind
	}

	task, err := m.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("repeat_kind_change", "failed to load task", err)
	}

	if newKind.IsRecurring() {
		if task.IsSubtask() {
			return nil, domain.ErrSubtaskRecurrence
		}
		if task.ParentRecurringID != nil {
			return nil, domain.ErrRecurringHasParent
		}
		if task.DueDate.IsZero() {
			return nil, domain.ErrTaskDueDateZero
		}
	}

	wasActive := task.IsRecurringDefinition()
	if !wasActive && task.RepeatKind == newKind {
		// Nothing changes for a non-recurring task keeping its kind.
		return &MutationResult{}, nil
	}

	result := &MutationResult{}
	err = m.runTx(ctx, m.tasks.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txTasks := m.tasks.WithTx(tx)

		if wasActive {
			deleted, err := txTasks.DeleteOccurrencesFrom(ctx, task.ID, m.now())
			if err != nil {
				return NewServiceError("repeat_kind_change", "failed to delete future occurrences", err)
			}
			result.DeletedCount = deleted
		}

		task.RepeatKind = newKind
		task.UpdatedAt = m.now()
		if err := txTasks.SaveSchedule(ctx, task); err != nil {
			return NewServiceError("repeat_kind_change", "failed to save schedule", err)
		}

		if newKind.IsRecurring() {
			generated, err := m.rematerialize(ctx, txTasks, task)
			if err != nil {
				return err
			}
			result.GeneratedCount = generated
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("repeat kind changed",
		slog.String("new_kind", string(newKind)),
		slog.Int64("deleted", result.DeletedCount),
		slog.Int("generated", result.GeneratedCount))

	return result, nil
}

// rematerialize creates the next lookahead occurrences of task's schedule
// through a transaction-scoped materializer, so the creations commit or roll
// back with the rest of the mutation.
func (m *Mutator) rematerialize(
	ctx context.Context,
	txTasks store.TaskStore,
	task *domain.Task,
) (int, error) {
	dates, err := recur.FutureDates(task.DueDate, task.RepeatKind, m.lookahead)
	if err != nil {
		return 0, NewServiceError("rematerialize", "failed to expand schedule", err)
	}

	materializer, err := NewMaterializer(txTasks, m.maxIterations, m.logger)
	if err != nil {
		return 0, err
	}

	created, err := materializer.Materialize(ctx, task, dates)
	if err != nil {
		return 0, err
	}

	if len(created) > 0 {
		metrics.OccurrencesGeneratedTotal.WithLabelValues(metrics.TriggerMutation).
			Add(float64(len(created)))
	}

	return len(created), nil
}
