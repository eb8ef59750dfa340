package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/uranai-api/internal/api"
	apiMiddleware "github.com/phrazzld/uranai-api/internal/api/middleware"
	"github.com/phrazzld/uranai-api/internal/observability"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(observability.Middleware)

	handlers := api.Handlers{
		Divination: api.NewDivinationHandler(app.divination, app.logger),
		Results:    api.NewResultHandler(app.results, app.logger),
		Compare:    api.NewCompareHandler(app.comparison, app.logger),
		Feedback:   api.NewFeedbackHandler(app.feedback, app.logger),
		Analytics:  api.NewAnalyticsHandler(app.analytics, app.logger),
		Companies:  api.NewCompanyHandler(app.companies, app.logger),
	}

	var owner func(http.Handler) http.Handler
	if app.tokens != nil {
		owner = apiMiddleware.NewOwnerMiddleware(app.tokens).Identify
	}

	r.Route("/api", func(r chi.Router) {
		handlers.Mount(r, owner)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
