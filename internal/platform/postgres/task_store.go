package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// taskColumns is the select list shared by every task query in this store.
const taskColumns = `id, owner_id, title, description, priority, category,
	links, notes, due_date, repeat_kind, parent_recurring_id, parent_task_id,
	is_completed, created_at, updated_at`

// TaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	sqlDB  *sql.DB // nil when running inside a transaction
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection that should be initialized and
// managed by the caller. If logger is nil, a default logger will be used.
func NewTaskStore(db *sql.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		sqlDB:  db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:     tx,
		sqlDB:  nil,
		logger: s.logger,
	}
}

// DB implements store.TaskStore.DB
func (s *TaskStore) DB() *sql.DB {
	return s.sqlDB
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}

	return task, nil
}

// FindRecurringDefinitions implements store.TaskStore.FindRecurringDefinitions
// Active definitions repeat and are not themselves generated occurrences.
func (s *TaskStore) FindRecurringDefinitions(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE repeat_kind <> 'none' AND parent_recurring_id IS NULL
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query recurring definitions",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(
			"task",
			"find_recurring",
			"failed to query recurring definitions",
			MapError(err),
		)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// FindOccurrences implements store.TaskStore.FindOccurrences
func (s *TaskStore) FindOccurrences(
	ctx context.Context,
	parentRecurringID uuid.UUID,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE parent_recurring_id = $1
		ORDER BY due_date ASC`

	rows, err := s.db.QueryContext(ctx, query, parentRecurringID)
	if err != nil {
		log.Error("failed to query occurrences",
			slog.String("parent_recurring_id", parentRecurringID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(
			"task",
			"find_occurrences",
			"failed to query occurrences",
			MapError(err),
		)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// CreateOccurrence implements store.TaskStore.CreateOccurrence
// The partial unique index on (parent_recurring_id, calendar date of
// due_date) makes duplicate materialization a store.ErrDuplicate rather
// than a second row.
func (s *TaskStore) CreateOccurrence(ctx context.Context, occ *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := occ.Validate(); err != nil {
		return store.NewStoreError("task", "create_occurrence", "invalid occurrence", err)
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, priority, category,
			links, notes, due_date, repeat_kind, parent_recurring_id, parent_task_id,
			is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := s.db.ExecContext(ctx, query,
		occ.ID,
		occ.OwnerID,
		occ.Title,
		occ.Description,
		occ.Priority,
		occ.Category,
		joinLinks(occ.Links),
		occ.Notes,
		occ.DueDate.UTC(),
		string(occ.RepeatKind),
		occ.ParentRecurringID,
		occ.ParentTaskID,
		occ.IsCompleted,
		occ.CreatedAt.UTC(),
		occ.UpdatedAt.UTC(),
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			// Lost a creation race; the caller decides whether that matters.
			return store.ErrOccurrenceExists
		}
		log.Error("failed to create occurrence",
			slog.String("task_id", occ.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create_occurrence", "failed to insert occurrence", mapped)
	}

	return nil
}

// DeleteOccurrencesFrom implements store.TaskStore.DeleteOccurrencesFrom
func (s *TaskStore) DeleteOccurrencesFrom(
	ctx context.Context,
	parentRecurringID uuid.UUID,
	from time.Time,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE parent_recurring_id = $1 AND due_date >= $2
	`

	result, err := s.db.ExecContext(ctx, query, parentRecurringID, from.UTC())
	if err != nil {
		log.Error("failed to delete occurrences",
			slog.String("parent_recurring_id", parentRecurringID.String()),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError(
			"task",
			"delete_occurrences",
			"failed to delete occurrences",
			MapError(err),
		)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(
			"task",
			"delete_occurrences",
			"failed to get rows affected",
			err,
		)
	}

	return deleted, nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// SaveSchedule implements store.TaskStore.SaveSchedule
// Only the schedule fields are written; other task detail edits belong to
// the task-management surface.
func (s *TaskStore) SaveSchedule(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "save_schedule", "invalid task", err)
	}

	query := `
		UPDATE tasks
		SET due_date = $1, repeat_kind = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		task.DueDate.UTC(),
		string(task.RepeatKind),
		time.Now().UTC(),
		task.ID,
	)
	if err != nil {
		log.Error("failed to save schedule",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "save_schedule", "failed to update schedule", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row using the taskColumns select list.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task              domain.Task
		description       sql.NullString
		category          sql.NullString
		links             sql.NullString
		notes             sql.NullString
		dueDate           sql.NullTime
		parentRecurringID uuid.NullUUID
		parentTaskID      uuid.NullUUID
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&task.Priority,
		&category,
		&links,
		&notes,
		&dueDate,
		&task.RepeatKind,
		&parentRecurringID,
		&parentTaskID,
		&task.IsCompleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Category = category.String
	task.Links = splitLinks(links.String)
	task.Notes = notes.String
	if dueDate.Valid {
		task.DueDate = dueDate.Time.UTC()
	}
	if parentRecurringID.Valid {
		id := parentRecurringID.UUID
		task.ParentRecurringID = &id
	}
	if parentTaskID.Valid {
		id := parentTaskID.UUID
		task.ParentTaskID = &id
	}

	return &task, nil
}

// Links are persisted as newline-delimited text. None of the collaborating
// surfaces allow newlines inside a link, so the encoding is unambiguous.

func joinLinks(links []string) string {
	return strings.Join(links, "\n")
}

func splitLinks(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

// collectTasks drains rows into a task slice.
func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "scan", "failed to scan task row", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "scan", "error iterating task rows", err)
	}

	return tasks, nil
}
