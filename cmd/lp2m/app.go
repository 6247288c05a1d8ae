package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/lp2m/internal/api"
	"github.com/yourusername/lp2m/internal/cache"
	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/datasource"
	"github.com/yourusername/lp2m/internal/health"
	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/scheduler"
	"github.com/yourusername/lp2m/internal/service"
)

// application holds the wired dependencies shared by the subcommands
type application struct {
	provider    datasource.FixtureProvider
	cached      *cache.CachedProvider
	httpClient  *datasource.RateLimitedHTTPClient
	predictions *service.PredictionService
	fixtures    *service.FixtureService
	health      *health.Checker
	scheduler   *scheduler.Scheduler
	router      http.Handler
}

func buildApp(cfg *config.Config, log *logrus.Logger) (*application, error) {
	factory := datasource.NewFactory(cfg.Provider, log)
	httpClient := factory.NewHTTPClient()

	upstream, err := factory.NewProvider(httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create fixture provider: %w", err)
	}

	app := &application{provider: upstream, httpClient: httpClient}
	checks := []health.Check{{Name: "provider", Pinger: upstream}}

	if cfg.Cache.Enabled {
		store, err := cache.NewStore(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to create fixture cache: %w", err)
		}
		app.cached = cache.NewCachedProvider(upstream, store, logger.NewProviderLogger(log))
		app.provider = app.cached
		checks = append(checks, health.Check{Name: "cache", Pinger: store, Optional: true})
	}

	app.predictions, err = service.NewPredictionService(cfg.Predictor, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create predictor: %w", err)
	}
	app.fixtures = service.NewFixtureService(app.provider)

	if cfg.Scheduler.WarmupCron != "" && app.cached != nil {
		app.scheduler = scheduler.NewScheduler(app.cached, log)
		if err := app.scheduler.ScheduleWarmup(cfg.Scheduler.WarmupCron); err != nil {
			return nil, err
		}
	}

	app.health = health.NewChecker(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      log,
		Checks:      checks,
	})

	app.router = api.NewRouter(api.Deps{
		Config:      cfg,
		Logger:      log,
		Predictions: app.predictions,
		Fixtures:    app.fixtures,
		Health:      app.health,
	})

	return app, nil
}

// warmup fills the cache once at startup so the first requests are served locally
func (a *application) warmup(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Warmup(ctx)
	}
}

func (a *application) close() error {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			return err
		}
	}
	if a.cached != nil {
		if err := a.cached.Close(); err != nil {
			return err
		}
	}
	return a.httpClient.Close()
}
