// Package observability builds the logger, tracer provider and metrics
// registry shared by every module.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	standingsmetrics "github.com/majiang-league/majiang-stats/app/shared/observability/metrics/standings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
)

// Config selects how telemetry is produced.
type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	LogLevel       string
	LogFormat      string
	MetricsAddress string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64

	// Output receives log lines. Defaults to stdout.
	Output io.Writer
}

// Provider owns the process-wide telemetry sinks.
type Provider struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider

	shutdown func(context.Context) error
}

// Registry holds the instruments handed to modules.
type Registry struct {
	Tracer           trace.Tracer
	Prometheus       *prometheus.Registry
	StandingsMetrics standingsmetrics.StandingsMetrics
}

// Observability bundles everything a module needs to log, trace and count.
type Observability struct {
	Config   Config
	Provider *Provider
	Registry *Registry
}

// Init builds the logger, tracer provider and prometheus registry.
func Init(ctx context.Context, cfg Config) (Observability, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "majiang-stats"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	logger, err := NewLogger(cfg.Output, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return Observability{}, err
	}
	logger = logger.With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	tp, shutdown, err := newTracerProvider(ctx, cfg)
	if err != nil {
		return Observability{}, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	standings, err := standingsmetrics.NewPrometheus(reg)
	if err != nil {
		_ = shutdown(ctx)
		return Observability{}, fmt.Errorf("failed to register standings metrics: %w", err)
	}

	logger.InfoContext(ctx, "Observability initialized",
		slog.Bool("tracing_exported", cfg.OTLPEndpoint != ""),
		slog.String("log_level", cfg.LogLevel),
	)

	return Observability{
		Config: cfg,
		Provider: &Provider{
			Logger:         logger,
			TracerProvider: tp,
			shutdown:       shutdown,
		},
		Registry: &Registry{
			Tracer:           tp.Tracer(cfg.ServiceName),
			Prometheus:       reg,
			StandingsMetrics: standings,
		},
	}, nil
}

// Shutdown flushes pending spans.
func (o Observability) Shutdown(ctx context.Context) error {
	if o.Provider == nil || o.Provider.shutdown == nil {
		return nil
	}
	if err := o.Provider.shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
