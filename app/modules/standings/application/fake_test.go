package standingsservice

import (
	"context"
	"sync"
	"time"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	standingsdb "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/repositories"
	standingsmetrics "github.com/majiang-league/majiang-stats/app/shared/observability/metrics/standings"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Standings Repo
// ------------------------

type FakeStandingsRepo struct {
	mu    sync.Mutex
	trace []string

	ListPlayersFunc              func(ctx context.Context, db bun.IDB) ([]standingsdomain.PlayerInfo, error)
	GetPlayerFunc                func(ctx context.Context, db bun.IDB, id standingsdomain.PlayerID) (*standingsdomain.PlayerInfo, error)
	ListResultSamplesFunc        func(ctx context.Context, db bun.IDB, filter standingsdb.ResultFilter) ([]standingsdb.PlayerSample, error)
	ListTournamentsFunc          func(ctx context.Context, db bun.IDB) ([]standingsdomain.TournamentRef, error)
	GetTournamentFunc            func(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) (*standingsdomain.TournamentRef, error)
	ListSessionsFunc             func(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) ([]standingsdomain.SessionInfo, error)
	GetTournamentSummaryFunc     func(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) ([]standingsdomain.PlayerTotals, error)
	GetTournamentRoundTotalsFunc func(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) ([]standingsdomain.SessionTotals, error)
	ListHierarchyRowsFunc        func(ctx context.Context, db bun.IDB, scope standingsdb.HierarchyScope) ([]standingsdomain.HierarchyRow, error)
}

func NewFakeStandingsRepo() *FakeStandingsRepo {
	return &FakeStandingsRepo{
		trace: []string{},
	}
}

func (f *FakeStandingsRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeStandingsRepo) ListPlayers(ctx context.Context, db bun.IDB) ([]standingsdomain.PlayerInfo, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db)
	}
	return []standingsdomain.PlayerInfo{}, nil
}

func (f *FakeStandingsRepo) GetPlayer(ctx context.Context, db bun.IDB, id standingsdomain.PlayerID) (*standingsdomain.PlayerInfo, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, db, id)
	}
	return nil, standingsdb.ErrNotFound
}

func (f *FakeStandingsRepo) ListResultSamples(ctx context.Context, db bun.IDB, filter standingsdb.ResultFilter) ([]standingsdb.PlayerSample, error) {
	f.record("ListResultSamples")
	if f.ListResultSamplesFunc != nil {
		return f.ListResultSamplesFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeStandingsRepo) ListTournaments(ctx context.Context, db bun.IDB) ([]standingsdomain.TournamentRef, error) {
	f.record("ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx, db)
	}
	return []standingsdomain.TournamentRef{}, nil
}

func (f *FakeStandingsRepo) GetTournament(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) (*standingsdomain.TournamentRef, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, db, id)
	}
	return nil, standingsdb.ErrNotFound
}

func (f *FakeStandingsRepo) ListSessions(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) ([]standingsdomain.SessionInfo, error) {
	f.record("ListSessions")
	if f.ListSessionsFunc != nil {
		return f.ListSessionsFunc(ctx, db, id)
	}
	return nil, nil
}

func (f *FakeStandingsRepo) GetTournamentSummary(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) ([]standingsdomain.PlayerTotals, error) {
	f.record("GetTournamentSummary")
	if f.GetTournamentSummaryFunc != nil {
		return f.GetTournamentSummaryFunc(ctx, db, id)
	}
	return nil, nil
}

func (f *FakeStandingsRepo) GetTournamentRoundTotals(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) ([]standingsdomain.SessionTotals, error) {
	f.record("GetTournamentRoundTotals")
	if f.GetTournamentRoundTotalsFunc != nil {
		return f.GetTournamentRoundTotalsFunc(ctx, db, id)
	}
	return nil, nil
}

func (f *FakeStandingsRepo) ListHierarchyRows(ctx context.Context, db bun.IDB, scope standingsdb.HierarchyScope) ([]standingsdomain.HierarchyRow, error) {
	f.record("ListHierarchyRows")
	if f.ListHierarchyRowsFunc != nil {
		return f.ListHierarchyRowsFunc(ctx, db, scope)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeStandingsRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ standingsdb.Repository = (*FakeStandingsRepo)(nil)

// ------------------------
// Fake Standings Metrics
// ------------------------

type FakeStandingsMetrics struct {
	mu        sync.Mutex
	failures  []string
	degraded  []string
	integrity []string
}

func (m *FakeStandingsMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (m *FakeStandingsMetrics) RecordOperationSuccess(context.Context, string, string) {}

func (m *FakeStandingsMetrics) RecordOperationFailure(_ context.Context, operation, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, operation)
}

func (m *FakeStandingsMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {
}

func (m *FakeStandingsMetrics) RecordDegradedResponse(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded = append(m.degraded, reason)
}

func (m *FakeStandingsMetrics) RecordIntegrityFault(_ context.Context, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.integrity = append(m.integrity, kind)
}

var _ standingsmetrics.StandingsMetrics = (*FakeStandingsMetrics)(nil)
