package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/majiang-league/majiang-stats/app/modules/standings"
	"github.com/majiang-league/majiang-stats/app/shared/httpmiddleware"
	"github.com/majiang-league/majiang-stats/app/shared/observability"
	"github.com/majiang-league/majiang-stats/config"
	"github.com/majiang-league/majiang-stats/db/bundb"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// App wires configuration, telemetry, storage, transports and modules.
type App struct {
	Config          *config.Config
	Observability   observability.Observability
	DB              *bundb.DBService
	NatsConn        *nats.Conn
	Router          chi.Router
	StandingsModule *standings.Module
}

// Initialize connects to Postgres (and NATS when configured) and builds the
// HTTP router with every module mounted.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Provider.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database service: %w", err)
	}
	app.DB = dbService

	if cfg.NATS.URL != "" {
		nc, err := connectNATS(cfg.NATS.URL, logger)
		if err != nil {
			_ = dbService.Close()
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		app.NatsConn = nc
	} else {
		logger.InfoContext(ctx, "NATS URL not configured, serving HTTP only")
	}

	httpMetrics, err := httpmiddleware.NewHTTPMetrics(obs.Registry.Prometheus)
	if err != nil {
		app.closeConnections()
		return fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	app.Router = newHTTPRouter(cfg, obs, httpMetrics, dbService)

	var apiMiddleware []func(http.Handler) http.Handler
	if cfg.HTTP.RateLimit > 0 {
		limiter := httpmiddleware.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
		apiMiddleware = append(apiMiddleware, httpmiddleware.RateLimit(limiter))
	}

	app.StandingsModule, err = standings.NewModule(ctx, cfg, obs, app.NatsConn, app.Router, dbService.GetDB(), apiMiddleware...)
	if err != nil {
		app.closeConnections()
		return fmt.Errorf("failed to initialize standings module: %w", err)
	}

	return nil
}

// pinger reports whether a dependency answers.
type pinger interface {
	Ping(ctx context.Context) error
}

// newHTTPRouter builds the root router carrying the shared middleware stack
// and the operational endpoints. Modules mount their routes on it.
func newHTTPRouter(cfg *config.Config, obs observability.Observability, metrics *httpmiddleware.HTTPMetrics, db pinger) chi.Router {
	logger := obs.Provider.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		httpmiddleware.RequestID,
		httpmiddleware.AccessLog(logger, metrics),
		httpmiddleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Get("/healthz", healthHandler(db, logger))
	r.Handle("/metrics", promhttp.HandlerFor(obs.Registry.Prometheus, promhttp.HandlerOpts{}))

	return r
}

func healthHandler(db pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if err := db.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "Health check failed", slog.Any("error", err))
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func connectNATS(url string, logger *slog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("majiang-stats"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
}

func (app *App) closeConnections() {
	if app.NatsConn != nil {
		if err := app.NatsConn.Drain(); err != nil {
			app.NatsConn.Close()
		}
		app.NatsConn = nil
	}
	if app.DB != nil {
		_ = app.DB.Close()
		app.DB = nil
	}
}
