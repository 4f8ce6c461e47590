package standingsdb

import (
	"context"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/uptrace/bun"
)

// ResultFilter narrows ListResultSamples. A zero PlayerID selects every player.
type ResultFilter struct {
	PlayerID standingsdomain.PlayerID
}

// HierarchyScope selects the games ListHierarchyRows returns. Exactly one of
// the fields is expected to be set.
type HierarchyScope struct {
	TournamentID standingsdomain.TournamentID
	PlayerID     standingsdomain.PlayerID
}

// PlayerSample is one lifetime result tagged with its player.
type PlayerSample struct {
	PlayerID standingsdomain.PlayerID
	Sample   standingsdomain.ResultSample
}

// Repository defines the read-only queries the standings views are built from.
// Every method accepts an optional bun.IDB so callers can run several reads in
// one transaction; a nil db uses the repository's own connection.
type Repository interface {
	// ListPlayers returns the roster ordered by id.
	ListPlayers(ctx context.Context, db bun.IDB) ([]standingsdomain.PlayerInfo, error)

	// GetPlayer returns one roster entry or ErrNotFound.
	GetPlayer(ctx context.Context, db bun.IDB, id standingsdomain.PlayerID) (*standingsdomain.PlayerInfo, error)

	// ListResultSamples returns raw results with placement points applied, in no particular order.
	ListResultSamples(ctx context.Context, db bun.IDB, filter ResultFilter) ([]PlayerSample, error)

	// ListTournaments returns tournament metadata, newest first.
	ListTournaments(ctx context.Context, db bun.IDB) ([]standingsdomain.TournamentRef, error)

	// GetTournament returns one tournament's metadata or ErrNotFound.
	GetTournament(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) (*standingsdomain.TournamentRef, error)

	// ListSessions returns a tournament's sessions ordered by id.
	ListSessions(ctx context.Context, db bun.IDB, tournamentID standingsdomain.TournamentID) ([]standingsdomain.SessionInfo, error)

	// GetTournamentSummary returns per-player sums over a tournament, ordered by player id.
	GetTournamentSummary(ctx context.Context, db bun.IDB, tournamentID standingsdomain.TournamentID) ([]standingsdomain.PlayerTotals, error)

	// GetTournamentRoundTotals returns per-(player, session) sums, ordered by player then session.
	GetTournamentRoundTotals(ctx context.Context, db bun.IDB, tournamentID standingsdomain.TournamentID) ([]standingsdomain.SessionTotals, error)

	// ListHierarchyRows returns flat rows sorted by session, game, then seat.
	ListHierarchyRows(ctx context.Context, db bun.IDB, scope HierarchyScope) ([]standingsdomain.HierarchyRow, error)
}
