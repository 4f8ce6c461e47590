package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server and the modules until ctx is canceled, then
// shuts everything down.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	srv := &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var metricsSrv *http.Server
	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry.Prometheus, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	runCtx, stopModules := context.WithCancel(ctx)
	defer stopModules()

	var wg sync.WaitGroup
	wg.Add(1)
	go app.StandingsModule.Run(runCtx, &wg)

	errCh := make(chan error, 2)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	if metricsSrv != nil {
		go func() {
			logger.InfoContext(ctx, "Metrics server listening", slog.String("address", metricsSrv.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Server failed", slog.Any("error", runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", slog.Any("error", err))
		}
	}

	stopModules()
	app.Close()
	wg.Wait()

	return runErr
}

// Close stops the modules and releases connections and telemetry.
func (app *App) Close() {
	logger := app.Observability.Provider.Logger

	if app.StandingsModule != nil {
		if err := app.StandingsModule.Close(); err != nil {
			logger.Error("Error closing standings module", slog.Any("error", err))
		}
	}

	app.closeConnections()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Observability.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down observability", slog.Any("error", err))
	}

	logger.Info("Graceful shutdown complete")
}
