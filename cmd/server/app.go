package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/platform/postgres"
	"github.com/taskhive/taskhive-api/internal/sched"
	"github.com/taskhive/taskhive-api/internal/service/recurrence"
	"github.com/taskhive/taskhive-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore  store.TaskStore
	sweepStore store.SweepStore

	// Recurrence engine
	materializer *recurrence.Materializer
	sweeper      *recurrence.Sweeper
	mutator      *recurrence.Mutator

	// Background sweep schedule
	scheduler *sched.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.taskStore = postgres.NewTaskStore(db, logger)
	app.sweepStore = postgres.NewSweepStore(db, logger)

	// Initialize the recurrence engine
	var err error
	app.materializer, err = recurrence.NewMaterializer(app.taskStore, cfg.Sweep.MaxIterations, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create materializer: %w", err)
	}

	app.sweeper, err = recurrence.NewSweeper(
		app.taskStore,
		app.sweepStore,
		app.materializer,
		cfg.Sweep.WindowDays,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sweeper: %w", err)
	}

	app.mutator, err = recurrence.NewMutator(
		app.taskStore,
		cfg.Sweep.Lookahead,
		cfg.Sweep.MaxIterations,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mutator: %w", err)
	}

	// Schedule the nightly sweep
	app.scheduler, err = sched.New(cfg.Sweep.Time, func(ctx context.Context) error {
		_, err := app.sweeper.RunMaintenanceSweep(ctx)
		return err
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the scheduler and the HTTP server, handling lifecycle and
// cleanup. It returns an error if the server fails to start or encounters
// problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	app.scheduler.Start()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the scheduler first so no sweep starts during teardown
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
