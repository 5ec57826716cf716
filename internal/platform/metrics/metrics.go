// Package metrics registers the Prometheus instruments for the recurrence
// engine. All instruments are registered at init via promauto and exposed
// on /metrics by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepRunsTotal counts completed maintenance sweeps by outcome
	// ("ok" when every rule processed cleanly, "partial" when at least one
	// rule recorded an error).
	SweepRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskhive",
		Subsystem: "sweep",
		Name:      "runs_total",
		Help:      "Total maintenance sweep runs, labelled by outcome.",
	}, []string{"outcome"})

	// SweepSkippedTotal counts sweep triggers skipped because a previous
	// run was still in flight.
	SweepSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taskhive",
		Subsystem: "sweep",
		Name:      "skipped_total",
		Help:      "Total sweep triggers skipped due to an overlapping run.",
	})

	// SweepRuleErrorsTotal counts per-rule failures inside sweep runs.
	SweepRuleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "taskhive",
		Subsystem: "sweep",
		Name:      "rule_errors_total",
		Help:      "Total per-rule errors recorded across sweep runs.",
	})

	// SweepDurationSeconds observes end-to-end sweep run time.
	SweepDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taskhive",
		Subsystem: "sweep",
		Name:      "duration_seconds",
		Help:      "End-to-end sweep execution time in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
	})

	// OccurrencesGeneratedTotal counts occurrences materialized, labelled by
	// the path that created them.
	OccurrencesGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskhive",
		Subsystem: "recurrence",
		Name:      "occurrences_generated_total",
		Help:      "Total occurrences materialized, labelled by trigger path.",
	}, []string{"trigger"})
)

// Trigger label values for OccurrencesGeneratedTotal.
const (
	TriggerSweep    = "sweep"
	TriggerMutation = "mutation"
)
