package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/taskhive/taskhive-api/internal/api"
	apiMiddleware "github.com/taskhive/taskhive-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	recurrenceHandler := api.NewRecurrenceHandler(
		app.sweeper,
		app.mutator,
		app.taskStore,
		app.logger,
	)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Schedule mutation endpoints
		r.Put("/tasks/{id}/due-date", recurrenceHandler.UpdateDueDate)
		r.Put("/tasks/{id}/repeat", recurrenceHandler.UpdateRepeatKind)
		r.Get("/tasks/{id}/occurrences", recurrenceHandler.ListOccurrences)

		// Manual sweep trigger
		r.Post("/maintenance/sweep", recurrenceHandler.TriggerSweep)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
