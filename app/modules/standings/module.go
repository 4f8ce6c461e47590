package standings

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	standingsservice "github.com/majiang-league/majiang-stats/app/modules/standings/application"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	standingshandlers "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/handlers"
	standingsdb "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/repositories"
	standingsrouter "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/router"
	"github.com/majiang-league/majiang-stats/app/shared/observability"
	"github.com/majiang-league/majiang-stats/config"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
)

// Module represents the standings module.
type Module struct {
	config        *config.Config
	observability observability.Observability
	service       standingsservice.Service
	handlers      standingshandlers.Handlers
	router        *standingsrouter.Router
	mu            sync.Mutex
	closed        bool
	stop          chan struct{}
	logger        *slog.Logger
}

// NewModule creates the standings module. nc may be nil, in which case only
// the HTTP routes are served. httpRouter may be nil for callers that only
// need the service, such as the CLI.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	nc *nats.Conn,
	httpRouter chi.Router,
	db *bun.DB,
	middlewares ...func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "Initializing standings module")

	policy, err := standingsdomain.NewScoringPolicy(cfg.Scoring.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to select scoring policy: %w", err)
	}

	repo := standingsdb.NewRepository(db, policy)
	service := standingsservice.NewStandingsService(repo, logger, obs.Registry.StandingsMetrics, tracer, db)
	handlers := standingshandlers.NewStandingsHandlers(service, logger, tracer)

	if httpRouter != nil {
		standingsrouter.RegisterRoutes(httpRouter, handlers, middlewares...)
	}

	var router *standingsrouter.Router
	if nc != nil {
		router = standingsrouter.NewRouter(handlers, nc)
	}

	logger.InfoContext(ctx, "Standings module initialized",
		slog.String("scoring_policy", string(policy.Name())),
		slog.Bool("nats_enabled", nc != nil),
	)

	return &Module{
		config:        cfg,
		observability: obs,
		service:       service,
		handlers:      handlers,
		router:        router,
		stop:          make(chan struct{}),
		logger:        logger,
	}, nil
}

// Run subscribes to the NATS subjects, if any, and blocks until ctx is done
// or Close is called. Close may run before Run has started.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting standings module")

	if wg != nil {
		defer wg.Done()
	}

	if err := m.startRouter(); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start standings router",
			slog.Any("error", err),
		)
		return
	}

	select {
	case <-ctx.Done():
	case <-m.stop:
	}
	m.logger.InfoContext(ctx, "Standings module goroutine stopped")
}

func (m *Module) startRouter() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.router == nil {
		return nil
	}
	if err := m.router.Start(m.config.NATS.QueueGroup); err != nil {
		return err
	}
	m.logger.Info("Standings NATS subjects subscribed",
		slog.String("queue_group", m.config.NATS.QueueGroup),
	)
	return nil
}

// Close stops the standings module. It is safe to call more than once.
func (m *Module) Close() error {
	m.logger.Info("Stopping standings module")

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}

	if m.router != nil {
		if err := m.router.Stop(); err != nil {
			m.logger.Error("Error stopping standings router", "error", err)
			return fmt.Errorf("error stopping router: %w", err)
		}
	}

	m.logger.Info("Standings module stopped")
	return nil
}

// GetService returns the standings service for use by other components.
func (m *Module) GetService() standingsservice.Service {
	return m.service
}
