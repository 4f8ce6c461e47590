package standingsservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	standingsdb "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/repositories"
	standingsmetrics "github.com/majiang-league/majiang-stats/app/shared/observability/metrics/standings"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const serviceName = "StandingsService"

// StandingsService implements the Service interface.
type StandingsService struct {
	repo    standingsdb.Repository
	logger  *slog.Logger
	metrics standingsmetrics.StandingsMetrics
	tracer  trace.Tracer
	db      *bun.DB
	palette ChartPalette
}

// NewStandingsService creates a new StandingsService. db may be nil, in which
// case reads go through the repository's own connection without a transaction.
func NewStandingsService(
	repo standingsdb.Repository,
	logger *slog.Logger,
	metrics standingsmetrics.StandingsMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StandingsService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		palette: DefaultPalette,
	}
}

// ListPlayers returns the roster.
func (s *StandingsService) ListPlayers(ctx context.Context) ([]standingsdomain.PlayerInfo, error) {
	return withTelemetry(s, ctx, "ListPlayers", "all", func(ctx context.Context) ([]standingsdomain.PlayerInfo, error) {
		players, err := s.repo.ListPlayers(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
		return players, nil
	})
}

// ListPlayerStats returns lifetime statistics for every roster player,
// including players without a single recorded game.
func (s *StandingsService) ListPlayerStats(ctx context.Context) ([]standingsdomain.PlayerStats, error) {
	return withTelemetry(s, ctx, "ListPlayerStats", "all", s.listPlayerStatsLogic)
}

func (s *StandingsService) listPlayerStatsLogic(ctx context.Context) ([]standingsdomain.PlayerStats, error) {
	var (
		players []standingsdomain.PlayerInfo
		samples []standingsdb.PlayerSample
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.repo.ListPlayers(gctx, nil)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		samples, err = s.repo.ListResultSamples(gctx, nil, standingsdb.ResultFilter{})
		if err != nil {
			return fmt.Errorf("failed to list result samples: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tallies := make(map[standingsdomain.PlayerID]standingsdomain.Tally, len(players))
	for _, p := range players {
		tallies[p.ID] = standingsdomain.Tally{}
	}
	orphans := 0
	for _, sm := range samples {
		t, ok := tallies[sm.PlayerID]
		if !ok {
			orphans++
			continue
		}
		tallies[sm.PlayerID] = t.Add(sm.Sample)
	}
	if orphans > 0 {
		s.logger.WarnContext(ctx, "Results reference players missing from the roster",
			slog.Int("results", orphans),
		)
	}

	out := make([]standingsdomain.PlayerStats, len(players))
	for i, p := range players {
		out[i] = tallies[p.ID].Stats(p.ID, p.Name)
	}
	return out, nil
}

// GetPlayer returns a player's lifetime statistics and full game history.
// It reports ErrNotFound when the player has no recorded results.
func (s *StandingsService) GetPlayer(ctx context.Context, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error) {
	return withTelemetry(s, ctx, "GetPlayer", strconv.FormatInt(int64(id), 10), func(ctx context.Context) (*standingsdomain.PlayerDetail, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*standingsdomain.PlayerDetail, error) {
			return s.getPlayerLogic(ctx, db, id)
		})
	})
}

func (s *StandingsService) getPlayerLogic(ctx context.Context, db bun.IDB, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error) {
	player, err := s.repo.GetPlayer(ctx, db, id)
	if err != nil {
		if errors.Is(err, standingsdb.ErrNotFound) {
			return nil, fmt.Errorf("player %d: %w", id, standingsdomain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	samples, err := s.repo.ListResultSamples(ctx, db, standingsdb.ResultFilter{PlayerID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to list result samples: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("player %d has no results: %w", id, standingsdomain.ErrNotFound)
	}

	var tally standingsdomain.Tally
	for _, sm := range samples {
		tally = tally.Add(sm.Sample)
	}

	rows, err := s.repo.ListHierarchyRows(ctx, db, standingsdb.HierarchyScope{PlayerID: id})
	if err != nil {
		s.recordIntegrityFault(ctx, err)
		return nil, fmt.Errorf("failed to list player games: %w", err)
	}
	sessions, err := standingsdomain.BuildHierarchy(rows)
	if err != nil {
		s.recordIntegrityFault(ctx, err)
		return nil, fmt.Errorf("failed to build player history: %w", err)
	}

	return &standingsdomain.PlayerDetail{
		PlayerStats: tally.Stats(player.ID, player.Name),
		GameDetails: standingsdomain.FlattenGames(sessions),
	}, nil
}

// ListTournaments returns tournament metadata, newest first.
func (s *StandingsService) ListTournaments(ctx context.Context) ([]standingsdomain.TournamentRef, error) {
	return withTelemetry(s, ctx, "ListTournaments", "all", func(ctx context.Context) ([]standingsdomain.TournamentRef, error) {
		tournaments, err := s.repo.ListTournaments(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list tournaments: %w", err)
		}
		return tournaments, nil
	})
}

// GetTournament returns a tournament's metadata, standings and session tree.
//
// Unknown ids report ErrNotFound. When the metadata loads but the standings or
// the tree cannot be built, the metadata is returned with empty summary and
// sessions instead of an error.
func (s *StandingsService) GetTournament(ctx context.Context, id standingsdomain.TournamentID) (*standingsdomain.TournamentDetail, error) {
	return withTelemetry(s, ctx, "GetTournament", strconv.FormatInt(int64(id), 10), func(ctx context.Context) (*standingsdomain.TournamentDetail, error) {
		return s.getTournamentLogic(ctx, id)
	})
}

func (s *StandingsService) getTournamentLogic(ctx context.Context, id standingsdomain.TournamentID) (*standingsdomain.TournamentDetail, error) {
	ref, err := s.repo.GetTournament(ctx, nil, id)
	if err != nil {
		if errors.Is(err, standingsdb.ErrNotFound) {
			return nil, fmt.Errorf("tournament %d: %w", id, standingsdomain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	detail := &standingsdomain.TournamentDetail{
		ID:       ref.ID,
		Info:     ref.Info,
		Summary:  []standingsdomain.StandingsEntry{},
		Sessions: []standingsdomain.Session{},
	}

	summary, sessions, err := s.buildStandings(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("failed to build standings: %w", ctxErr)
		}
		s.recordIntegrityFault(ctx, err)
		reason := string(standingsdomain.IntegrityKindOf(err))
		if reason == "" {
			reason = "query_failed"
		}
		s.logger.WarnContext(ctx, "Serving tournament without standings",
			slog.Int64("tournament_id", int64(id)),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
		if s.metrics != nil {
			s.metrics.RecordDegradedResponse(ctx, reason)
		}
		return detail, nil
	}

	detail.Summary = summary
	detail.Sessions = sessions
	return detail, nil
}

// buildStandings loads the four independent feeds concurrently and runs the
// ranking engine and hierarchy builder over them.
func (s *StandingsService) buildStandings(ctx context.Context, id standingsdomain.TournamentID) ([]standingsdomain.StandingsEntry, []standingsdomain.Session, error) {
	var (
		sessionInfos []standingsdomain.SessionInfo
		totals       []standingsdomain.PlayerTotals
		rounds       []standingsdomain.SessionTotals
		rows         []standingsdomain.HierarchyRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sessionInfos, err = s.repo.ListSessions(gctx, nil, id)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.repo.GetTournamentSummary(gctx, nil, id)
		return err
	})
	g.Go(func() (err error) {
		rounds, err = s.repo.GetTournamentRoundTotals(gctx, nil, id)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.repo.ListHierarchyRows(gctx, nil, standingsdb.HierarchyScope{TournamentID: id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load standings feeds: %w", err)
	}

	summary, err := standingsdomain.RankStandings(sessionInfos, totals, rounds)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rank standings: %w", err)
	}
	sessions, err := standingsdomain.BuildHierarchy(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build session tree: %w", err)
	}
	return summary, sessions, nil
}

// ExportTournament renders the tournament view as an xlsx workbook.
func (s *StandingsService) ExportTournament(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error) {
	return withTelemetry(s, ctx, "ExportTournament", strconv.FormatInt(int64(id), 10), func(ctx context.Context) ([]byte, error) {
		detail, err := s.getTournamentLogic(ctx, id)
		if err != nil {
			return nil, err
		}
		return BuildStandingsWorkbook(detail)
	})
}

// TournamentChart renders the tournament's cumulative placement points.
func (s *StandingsService) TournamentChart(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error) {
	return withTelemetry(s, ctx, "TournamentChart", strconv.FormatInt(int64(id), 10), func(ctx context.Context) ([]byte, error) {
		detail, err := s.getTournamentLogic(ctx, id)
		if err != nil {
			return nil, err
		}
		return GenerateTournamentChart(detail, s.palette)
	})
}

// PlayerPlacementChart renders the player's finishing-place distribution. Like
// GetPlayer it reports ErrNotFound for a player without results.
func (s *StandingsService) PlayerPlacementChart(ctx context.Context, id standingsdomain.PlayerID) ([]byte, error) {
	return withTelemetry(s, ctx, "PlayerPlacementChart", strconv.FormatInt(int64(id), 10), func(ctx context.Context) ([]byte, error) {
		player, err := s.repo.GetPlayer(ctx, nil, id)
		if err != nil {
			if errors.Is(err, standingsdb.ErrNotFound) {
				return nil, fmt.Errorf("player %d: %w", id, standingsdomain.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get player: %w", err)
		}
		samples, err := s.repo.ListResultSamples(ctx, nil, standingsdb.ResultFilter{PlayerID: id})
		if err != nil {
			return nil, fmt.Errorf("failed to list result samples: %w", err)
		}
		if len(samples) == 0 {
			return nil, fmt.Errorf("player %d has no results: %w", id, standingsdomain.ErrNotFound)
		}
		var tally standingsdomain.Tally
		for _, sm := range samples {
			tally = tally.Add(sm.Sample)
		}
		return GeneratePlacementChart(tally.Stats(player.ID, player.Name), s.palette)
	})
}

func (s *StandingsService) recordIntegrityFault(ctx context.Context, err error) {
	kind := standingsdomain.IntegrityKindOf(err)
	if kind == "" {
		return
	}
	s.logger.ErrorContext(ctx, "Data integrity fault",
		slog.String("kind", string(kind)),
		slog.Any("error", err),
	)
	if s.metrics != nil {
		s.metrics.RecordIntegrityFault(ctx, string(kind))
	}
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *StandingsService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)

	// NotFound is an expected outcome, not a failure of the service.
	if errors.Is(err, standingsdomain.ErrNotFound) {
		s.logger.WarnContext(ctx, "Operation found nothing",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
		}
		return result, err
	}

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, "Operation completed successfully",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}

// runInTx runs fn inside a read-only transaction so every read sees one snapshot.
func runInTx[T any](
	s *StandingsService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
