package recurrence

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/platform/metrics"
	"github.com/taskhive/taskhive-api/internal/store"
)

// RuleError records one rule's failure inside a sweep run.
type RuleError struct {
	RuleID  uuid.UUID `json:"rule_id"`
	Message string    `json:"message"`
}

// SweepSummary aggregates the outcome of one maintenance sweep run.
type SweepSummary struct {
	StartedAt            time.Time   `json:"started_at"`
	FinishedAt           time.Time   `json:"finished_at"`
	RulesProcessed       int         `json:"rules_processed"`
	OccurrencesGenerated int         `json:"occurrences_generated"`
	Errors               []RuleError `json:"errors,omitempty"`
}

// Sweeper runs the periodic reconciliation pass that tops up missing
// near-future occurrences for every active recurring definition.
type Sweeper struct {
	tasks        store.TaskStore
	sweeps       store.SweepStore
	materializer *Materializer
	windowDays   int
	logger       *slog.Logger
	inFlight     atomic.Bool
	now          func() time.Time
}

// NewSweeper creates a new Sweeper. The sweep store may be nil, in which
// case runs are not recorded. windowDays must be at least 1.
func NewSweeper(
	tasks store.TaskStore,
	sweeps store.SweepStore,
	materializer *Materializer,
	windowDays int,
	logger *slog.Logger,
) (*Sweeper, error) {
	if tasks == nil {
		return nil, NewServiceError("new_sweeper", "task store cannot be nil", nil)
	}
	if materializer == nil {
		return nil, NewServiceError("new_sweeper", "materializer cannot be nil", nil)
	}
	if windowDays < 1 {
		return nil, NewServiceError("new_sweeper", "window must be at least one day", nil)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		tasks:        tasks,
		sweeps:       sweeps,
		materializer: materializer,
		windowDays:   windowDays,
		logger:       logger.With(slog.String("component", "sweeper")),
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// RunMaintenanceSweep processes every active recurring definition once,
// materializing occurrences missing inside the forward window (sweep time
// plus the configured number of calendar days, compared by date only).
//
// The method is re-entrant safe: a call arriving while a previous run is
// still executing returns ErrSweepInProgress without doing any work. Within
// a run, each rule is processed independently — one rule's failure is
// recorded in the summary and never aborts the others. The only error that
// fails the run itself is being unable to list the definitions.
func (s *Sweeper) RunMaintenanceSweep(ctx context.Context) (*SweepSummary, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("skipping sweep trigger, previous run still in flight")
		metrics.SweepSkippedTotal.Inc()
		return nil, ErrSweepInProgress
	}
	defer s.inFlight.Store(false)

	log := logger.FromContextOrDefault(ctx, s.logger)
	start := s.now()
	windowEnd := start.AddDate(0, 0, s.windowDays)

	rules, err := s.tasks.FindRecurringDefinitions(ctx)
	if err != nil {
		log.Error("failed to list recurring definitions, aborting sweep",
			slog.String("error", err.Error()))
		return nil, NewServiceError("sweep", "failed to list recurring definitions", err)
	}

	summary := &SweepSummary{StartedAt: start}
	for _, rule := range rules {
		summary.RulesProcessed++

		created, err := s.materializer.EnsureThrough(ctx, rule, windowEnd)
		if err != nil {
			log.Error("rule sweep failed, continuing with remaining rules",
				slog.String("rule_id", rule.ID.String()),
				slog.String("error", err.Error()))
			summary.Errors = append(summary.Errors, RuleError{
				RuleID:  rule.ID,
				Message: err.Error(),
			})
			metrics.SweepRuleErrorsTotal.Inc()
			continue
		}

		summary.OccurrencesGenerated += len(created)
	}

	summary.FinishedAt = s.now()
	s.observe(ctx, summary)

	log.Info("maintenance sweep completed",
		slog.Int("rules_processed", summary.RulesProcessed),
		slog.Int("occurrences_generated", summary.OccurrencesGenerated),
		slog.Int("errors", len(summary.Errors)))

	return summary, nil
}

// observe records the run's metrics and audit row. Failures here are logged
// only; the sweep's work is already done.
func (s *Sweeper) observe(ctx context.Context, summary *SweepSummary) {
	outcome := "ok"
	if len(summary.Errors) > 0 {
		outcome = "partial"
	}
	metrics.SweepRunsTotal.WithLabelValues(outcome).Inc()
	metrics.SweepDurationSeconds.Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())
	if summary.OccurrencesGenerated > 0 {
		metrics.OccurrencesGeneratedTotal.WithLabelValues(metrics.TriggerSweep).
			Add(float64(summary.OccurrencesGenerated))
	}

	if s.sweeps == nil {
		return
	}

	run := &store.SweepRun{
		ID:                   uuid.New(),
		StartedAt:            summary.StartedAt,
		FinishedAt:           summary.FinishedAt,
		RulesProcessed:       summary.RulesProcessed,
		OccurrencesGenerated: summary.OccurrencesGenerated,
		ErrorCount:           len(summary.Errors),
	}
	if err := s.sweeps.RecordRun(ctx, run); err != nil {
		s.logger.Error("failed to record sweep run",
			slog.String("error", err.Error()))
	}
}
