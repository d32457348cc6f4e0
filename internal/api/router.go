package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/logoslab/internal/api/handlers"
	mw "github.com/Harshitk-cp/logoslab/internal/api/middleware"
	"github.com/Harshitk-cp/logoslab/internal/buildconfig"
	"github.com/Harshitk-cp/logoslab/internal/config"
	"github.com/Harshitk-cp/logoslab/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the reasoning service behind it.
type App struct {
	Router       *chi.Mux
	Reasoner     *service.ReasonService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(svc *service.ReasonService, logger *zap.Logger) *App {
	// Handlers
	propositionHandler := handlers.NewPropositionHandler(svc)
	expressionHandler := handlers.NewExpressionHandler(svc)
	inferenceHandler := handlers.NewInferenceHandler(svc)
	rulesetHandler := handlers.NewRulesetHandler(svc)

	r := chi.NewRouter()

	// Initialize app with metrics tracking
	app := &App{
		Router:    r,
		Reasoner:  svc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                                 // Generate/extract request ID first
	r.Use(middleware.RealIP)                                            // Extract real IP
	r.Use(metricsCollector.Middleware)                                  // Collect metrics
	r.Use(mw.Logging(logger))                                           // Log all requests
	r.Use(middleware.Recoverer)                                         // Recover from panics
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst())) // Rate limiting

	// Health (no auth)
	r.Get("/health", app.healthHandler())

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	apiKey := config.APIKey()
	if apiKey == "" {
		logger.Warn("LOGOSLAB_API_KEY not set, /v1 routes are unauthenticated")
	}

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(apiKey))

		// Propositions
		r.Route("/propositions", func(r chi.Router) {
			r.Get("/", propositionHandler.List)
			r.Post("/", propositionHandler.Upsert)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", propositionHandler.GetByName)
				r.Delete("/", propositionHandler.Delete)
				r.Get("/trace", propositionHandler.Trace)
				r.Get("/conflicts", propositionHandler.Conflicts)
			})
		})

		// Expressions
		r.Route("/expressions", func(r chi.Router) {
			r.Post("/", expressionHandler.Create)
			r.Post("/evaluate", expressionHandler.Evaluate)
		})

		// Inference
		r.Post("/deduce", inferenceHandler.Deduce)
		r.Delete("/knowledge-base", inferenceHandler.Reset)

		// Ruleset loading
		r.Route("/ruleset", func(r chi.Router) {
			r.Post("/assumptions", rulesetHandler.LoadAssumptions)
			r.Post("/facts", rulesetHandler.LoadFacts)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage lifecycle themselves.
func NewRouter(svc *service.ReasonService, logger *zap.Logger) *chi.Mux {
	return NewApp(svc, logger).Router
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := app.Reasoner.Stats()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"version":      buildconfig.Version(),
			"propositions": stats.Propositions,
			"expressions":  stats.Expressions,
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		stats := app.Reasoner.Stats()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"knowledge_base": map[string]any{
				"propositions": stats.Propositions,
				"known":        stats.Known,
				"conflicted":   stats.Conflicted,
				"expressions":  stats.Expressions,
			},
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
