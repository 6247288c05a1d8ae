// Package api exposes the prediction and fixture endpoints over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/health"
	"github.com/yourusername/lp2m/internal/metrics"
	"github.com/yourusername/lp2m/internal/service"
)

// Deps holds everything the router needs
type Deps struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Predictions *service.PredictionService
	Fixtures    *service.FixtureService
	Health      *health.Checker
}

// NewRouter builds the chi router with middleware and routes
func NewRouter(deps Deps) http.Handler {
	h := NewHandler(deps.Predictions, deps.Fixtures, deps.Logger)
	cfg := deps.Config

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(requestMetrics)
	r.Use(middleware.Recoverer)
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}
	r.Use(middleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.HandleHealth)
		r.Get("/live", deps.Health.HandleLive)
		r.Get("/ready", deps.Health.HandleReady)
		r.Get("/leagues", h.Leagues)
		r.Get("/fixtures", h.Fixtures)
		r.Post("/predict", h.Predict)
	})

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// NewServer wraps the router in an http.Server with the configured timeouts
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
