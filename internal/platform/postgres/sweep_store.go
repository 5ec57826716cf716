package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/taskhive/taskhive-api/internal/store"
)

// SweepStore implements the store.SweepStore interface
// using a PostgreSQL database as the storage backend.
type SweepStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSweepStore creates a new PostgreSQL implementation of the SweepStore
// interface. If logger is nil, a default logger will be used.
func NewSweepStore(db *sql.DB, logger *slog.Logger) *SweepStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SweepStore{
		db:     db,
		logger: logger.With(slog.String("component", "sweep_store")),
	}
}

// Ensure SweepStore implements store.SweepStore interface
var _ store.SweepStore = (*SweepStore)(nil)

// RecordRun implements store.SweepStore.RecordRun
func (s *SweepStore) RecordRun(ctx context.Context, run *store.SweepRun) error {
	query := `
		INSERT INTO sweep_runs (id, started_at, finished_at, rules_processed,
			occurrences_generated, error_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.RulesProcessed,
		run.OccurrencesGenerated,
		run.ErrorCount,
	)
	if err != nil {
		s.logger.Error("failed to record sweep run",
			slog.String("run_id", run.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("sweep_run", "record", "failed to insert sweep run", MapError(err))
	}

	return nil
}
