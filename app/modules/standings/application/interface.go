package standingsservice

import (
	"context"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
)

// Service answers the read-only standings views.
type Service interface {
	ListPlayers(ctx context.Context) ([]standingsdomain.PlayerInfo, error)
	ListPlayerStats(ctx context.Context) ([]standingsdomain.PlayerStats, error)
	GetPlayer(ctx context.Context, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error)
	ListTournaments(ctx context.Context) ([]standingsdomain.TournamentRef, error)
	GetTournament(ctx context.Context, id standingsdomain.TournamentID) (*standingsdomain.TournamentDetail, error)

	// ExportTournament renders the tournament view as an xlsx workbook.
	ExportTournament(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error)

	// TournamentChart renders cumulative placement points per round as a PNG.
	TournamentChart(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error)

	// PlayerPlacementChart renders a player's finishing-place distribution as a PNG.
	PlayerPlacementChart(ctx context.Context, id standingsdomain.PlayerID) ([]byte, error)
}
