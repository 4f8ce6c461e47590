package standingsintegrationtests

import (
	"context"
	"io"
	"log"
	"log/slog"
	"sync"
	"testing"
	"time"

	standingsservice "github.com/majiang-league/majiang-stats/app/modules/standings/application"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	standingsdb "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/repositories"
	standingsmetrics "github.com/majiang-league/majiang-stats/app/shared/observability/metrics/standings"
	"github.com/majiang-league/majiang-stats/integration_tests/testutils"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvOnce sync.Once
	testEnvErr  error
)

// GetTestEnv starts the shared containers on first use.
func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testEnvOnce.Do(func() {
		log.Println("Initializing standings test environment...")
		testEnv, testEnvErr = testutils.NewTestEnvironment(context.Background())
	})

	if testEnvErr != nil {
		t.Fatalf("Standings test environment initialization failed: %v", testEnvErr)
	}
	return testEnv
}

// StandingsTestDeps bundles what a standings integration test needs.
type StandingsTestDeps struct {
	*testutils.TestEnvironment
	Repo    standingsdb.Repository
	Service *standingsservice.StandingsService
	League  testutils.League
}

// SetupTestStandings resets the database, loads league and builds the service
// with policy.
func SetupTestStandings(t *testing.T, policy standingsdomain.ScoringPolicy, league testutils.League) StandingsTestDeps {
	t.Helper()
	env := GetTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := env.Reset(ctx); err != nil {
		t.Fatalf("Failed to reset environment: %v", err)
	}
	if err := testutils.InsertLeague(ctx, env.DB, league); err != nil {
		t.Fatalf("Failed to insert league: %v", err)
	}

	repo := standingsdb.NewRepository(env.DB, policy)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := standingsservice.NewStandingsService(
		repo,
		logger,
		standingsmetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		env.DB,
	)

	return StandingsTestDeps{
		TestEnvironment: env,
		Repo:            repo,
		Service:         service,
		League:          league,
	}
}

// generateLeague builds a roster plus two tournaments on different dates.
func generateLeague(t *testing.T, seed int64) testutils.League {
	t.Helper()
	g := testutils.NewTestDataGenerator(seed)

	var league testutils.League
	league.Players = g.GeneratePlayers(1, 6)

	specs := []testutils.TournamentSpec{
		{ID: 1, Date: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), Sessions: 2, GamesPerSession: 3},
		{ID: 2, Date: time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC), Sessions: 3, GamesPerSession: 2},
	}
	for _, spec := range specs {
		tournament, err := g.GenerateTournament(spec, league.Players)
		if err != nil {
			t.Fatalf("Failed to generate tournament (seed %d): %v", g.Seed(), err)
		}
		league.Merge(tournament)
	}
	return league
}

// expectedTotals sums a tournament's results in Go under policy.
func expectedTotals(league testutils.League, tournamentID int64, policy standingsdomain.ScoringPolicy) map[standingsdomain.PlayerID]standingsdomain.PointTotals {
	sessions := map[int64]bool{}
	for _, s := range league.Sessions {
		if s.TournamentID == tournamentID {
			sessions[s.ID] = true
		}
	}
	games := map[int64]bool{}
	for _, g := range league.Games {
		if sessions[g.SessionID] {
			games[g.ID] = true
		}
	}

	totals := map[standingsdomain.PlayerID]standingsdomain.PointTotals{}
	for _, r := range league.Results {
		if !games[r.GameID] {
			continue
		}
		id := standingsdomain.PlayerID(r.PlayerID)
		totals[id] = totals[id].Add(standingsdomain.PointTotals{
			TablePoint: r.TablePoint,
			PlacePoint: policy.PlacePoint(r.TablePoint),
			GamePoint:  r.GamePoint,
		})
	}
	return totals
}
