// Package sched runs the nightly maintenance sweep on a cron schedule.
package sched

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepFunc runs one maintenance sweep. The scheduler ignores its result
// beyond logging; the sweep reports its own outcome.
type SweepFunc func(ctx context.Context) error

// Scheduler wraps a cron runner that fires the maintenance sweep once a day
// at a configured UTC time. Overlapping firings are skipped rather than
// queued, matching the sweep's own single-flight guard.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a Scheduler with a daily sweep job at sweepTime ("HH:MM",
// 24-hour). The job is registered but does not fire until Start is called.
func New(sweepTime string, sweep SweepFunc, logger *slog.Logger) (*Scheduler, error) {
	if sweep == nil {
		return nil, fmt.Errorf("sweep function cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "scheduler"))

	spec, err := buildDailySpec(sweepTime)
	if err != nil {
		return nil, err
	}

	cronLog := &cronLogger{logger: log}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithChain(
			cron.SkipIfStillRunning(cronLog),
			cron.Recover(cronLog),
		),
	)

	_, err = c.AddFunc(spec, func() {
		if err := sweep(context.Background()); err != nil {
			log.Error("scheduled sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register sweep job: %w", err)
	}

	log.Info("sweep scheduled", slog.String("time", sweepTime))
	return &Scheduler{cron: c, logger: log}, nil
}

// Start begins firing scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// buildDailySpec converts an "HH:MM" time into a six-field cron spec firing
// once a day at that time.
func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid sweep time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in sweep time %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in sweep time %q", timeStr)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

// cronLogger adapts slog to the cron library's logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)
	l.logger.Error(msg, args...)
}
