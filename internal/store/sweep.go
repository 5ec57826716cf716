package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SweepRun is the persisted record of one maintenance sweep execution.
type SweepRun struct {
	ID                   uuid.UUID
	StartedAt            time.Time
	FinishedAt           time.Time
	RulesProcessed       int
	OccurrencesGenerated int
	ErrorCount           int
}

// SweepStore persists the audit trail of maintenance sweep runs.
type SweepStore interface {
	// RecordRun saves the outcome of a completed sweep run.
	RecordRun(ctx context.Context, run *SweepRun) error
}
