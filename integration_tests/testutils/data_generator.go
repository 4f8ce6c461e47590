package testutils

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	standingsdb "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// TestDataGenerator provides methods to create league data for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was created with, for reproducing failures.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// League is a set of rows ready to insert, parents first.
type League struct {
	Players     []standingsdb.Player
	Tournaments []standingsdb.Tournament
	Sessions    []standingsdb.Session
	Games       []standingsdb.Game
	Results     []standingsdb.GameResult
}

// Merge appends other's rows to l.
func (l *League) Merge(other League) {
	l.Players = append(l.Players, other.Players...)
	l.Tournaments = append(l.Tournaments, other.Tournaments...)
	l.Sessions = append(l.Sessions, other.Sessions...)
	l.Games = append(l.Games, other.Games...)
	l.Results = append(l.Results, other.Results...)
}

// GeneratePlayers creates count players with ids starting at firstID.
func (g *TestDataGenerator) GeneratePlayers(firstID int64, count int) []standingsdb.Player {
	players := make([]standingsdb.Player, count)
	for i := range players {
		players[i] = standingsdb.Player{
			ID:   firstID + int64(i),
			Name: g.faker.Name(),
		}
	}
	return players
}

// TournamentSpec shapes a generated tournament.
type TournamentSpec struct {
	ID              int64
	Date            time.Time
	Sessions        int
	GamesPerSession int
}

// GenerateTournament creates a tournament whose games seat four distinct
// players drawn from roster. Ids are derived from spec.ID so several
// tournaments can be generated without collisions: session ids are
// ID*100+n, game ids session*100+n and result ids game*10+seat.
//
// Table points in each game are a permutation of 4, 3, 2, 1 and game points
// sum to zero with the highest game point on the 4.
func (g *TestDataGenerator) GenerateTournament(spec TournamentSpec, roster []standingsdb.Player) (League, error) {
	if len(roster) < 4 {
		return League{}, fmt.Errorf("need at least 4 players, got %d", len(roster))
	}

	league := League{
		Tournaments: []standingsdb.Tournament{{
			ID:       spec.ID,
			Name:     fmt.Sprintf("第%d回 %s杯", spec.ID, g.faker.City()),
			SubName:  g.faker.RandomString([]string{"予選", "本戦", "決勝", ""}),
			Date:     spec.Date,
			Location: g.faker.City(),
		}},
	}

	for s := 1; s <= spec.Sessions; s++ {
		session := standingsdb.Session{
			ID:           spec.ID*100 + int64(s),
			TournamentID: spec.ID,
			Name:         fmt.Sprintf("第%d節", s),
		}
		league.Sessions = append(league.Sessions, session)

		for n := 1; n <= spec.GamesPerSession; n++ {
			game := standingsdb.Game{
				ID:        session.ID*100 + int64(n),
				SessionID: session.ID,
			}
			league.Games = append(league.Games, game)
			league.Results = append(league.Results, g.generateResults(game.ID, roster)...)
		}
	}

	return league, nil
}

func (g *TestDataGenerator) generateResults(gameID int64, roster []standingsdb.Player) []standingsdb.GameResult {
	seated := make([]standingsdb.Player, len(roster))
	copy(seated, roster)
	g.faker.ShuffleAnySlice(seated)
	seated = seated[:4]

	tablePoints := []float64{4, 3, 2, 1}
	g.faker.ShuffleAnySlice(tablePoints)

	gamePoints := make([]int, 4)
	sum := 0
	for i := 0; i < 3; i++ {
		gamePoints[i] = g.faker.Number(-400, 600)
		sum += gamePoints[i]
	}
	gamePoints[3] = -sum
	slices.Sort(gamePoints)

	results := make([]standingsdb.GameResult, 4)
	for seat := range results {
		// tablePoints[seat] is 1..4; the nth lowest game point goes with table point n.
		results[seat] = standingsdb.GameResult{
			ID:         gameID*10 + int64(seat),
			GameID:     gameID,
			PlayerID:   seated[seat].ID,
			Seat:       seat,
			GamePoint:  gamePoints[int(tablePoints[seat])-1],
			TablePoint: tablePoints[seat],
		}
	}
	return results
}

// InsertLeague writes every row of league.
func InsertLeague(ctx context.Context, db bun.IDB, league League) error {
	inserts := []struct {
		name  string
		model any
		n     int
	}{
		{"players", &league.Players, len(league.Players)},
		{"tournaments", &league.Tournaments, len(league.Tournaments)},
		{"sessions", &league.Sessions, len(league.Sessions)},
		{"games", &league.Games, len(league.Games)},
		{"game_results", &league.Results, len(league.Results)},
	}
	for _, ins := range inserts {
		if ins.n == 0 {
			continue
		}
		if _, err := db.NewInsert().Model(ins.model).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert %s: %w", ins.name, err)
		}
	}
	return nil
}
