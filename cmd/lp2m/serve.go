package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/lp2m/internal/api"
	"github.com/yourusername/lp2m/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	app, err := buildApp(cfg, appLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.close(); err != nil {
			appLog.WithError(err).Warn("Error releasing resources")
		}
	}()

	server := api.NewServer(cfg, app.router)
	errCh := make(chan error, 1)

	go func() {
		appLog.WithFields(logrus.Fields{
			"addr":        server.Addr,
			"provider":    cfg.Provider.Name,
			"cache":       cfg.Cache.Enabled,
			"environment": cfg.App.Environment,
			"version":     Version,
		}).Info("LP2M backend starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if app.scheduler != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			app.warmup(ctx)
		}()
		if err := app.scheduler.Start(); err != nil {
			return err
		}
	}
	app.health.SetReady(true)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-errCh:
		return err
	}

	app.health.SetReady(false)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	appLog.Info("LP2M backend stopped")
	return nil
}
