package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskStore defines the interface for task data persistence as seen by the
// recurrence engine. General task CRUD lives with the task-management
// surface and is not part of this interface.
type TaskStore interface {
	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// FindRecurringDefinitions retrieves every active recurring definition:
	// tasks with a recurring repeat kind and no parent recurring ID.
	FindRecurringDefinitions(ctx context.Context) ([]*domain.Task, error)

	// FindOccurrences retrieves all occurrences generated from the given
	// recurring definition, ordered by due date ascending.
	FindOccurrences(ctx context.Context, parentRecurringID uuid.UUID) ([]*domain.Task, error)

	// CreateOccurrence saves a generated occurrence. The database enforces
	// at most one occurrence per (parent recurring ID, calendar date of the
	// due date); a violation is returned as ErrDuplicate so callers can
	// treat a lost creation race as a benign no-op.
	CreateOccurrence(ctx context.Context, occ *domain.Task) error

	// DeleteOccurrencesFrom removes all occurrences of the given recurring
	// definition whose due date is on or after from, returning the number
	// deleted. Completed occurrences in the past are never touched.
	DeleteOccurrencesFrom(ctx context.Context, parentRecurringID uuid.UUID, from time.Time) (int64, error)

	// Delete removes a task by ID. Returns ErrTaskNotFound if it does not
	// exist. Used for best-effort cleanup of a partially created batch.
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveSchedule persists a recurring definition's schedule fields
	// (due date and repeat kind) along with its updated timestamp.
	// Returns ErrTaskNotFound if the task does not exist.
	SaveSchedule(ctx context.Context, task *domain.Task) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore

	// DB returns the underlying database connection, used by services to
	// open transactions that span multiple store calls.
	DB() *sql.DB
}
