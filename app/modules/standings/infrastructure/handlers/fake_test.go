package standingshandlers

import (
	"context"

	standingsservice "github.com/majiang-league/majiang-stats/app/modules/standings/application"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
)

// ------------------------
// Fake Standings Service
// ------------------------

type FakeService struct {
	trace []string

	ListPlayersFunc          func(ctx context.Context) ([]standingsdomain.PlayerInfo, error)
	ListPlayerStatsFunc      func(ctx context.Context) ([]standingsdomain.PlayerStats, error)
	GetPlayerFunc            func(ctx context.Context, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error)
	ListTournamentsFunc      func(ctx context.Context) ([]standingsdomain.TournamentRef, error)
	GetTournamentFunc        func(ctx context.Context, id standingsdomain.TournamentID) (*standingsdomain.TournamentDetail, error)
	ExportTournamentFunc     func(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error)
	TournamentChartFunc      func(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error)
	PlayerPlacementChartFunc func(ctx context.Context, id standingsdomain.PlayerID) ([]byte, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) ListPlayers(ctx context.Context) ([]standingsdomain.PlayerInfo, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx)
	}
	return []standingsdomain.PlayerInfo{}, nil
}

func (f *FakeService) ListPlayerStats(ctx context.Context) ([]standingsdomain.PlayerStats, error) {
	f.record("ListPlayerStats")
	if f.ListPlayerStatsFunc != nil {
		return f.ListPlayerStatsFunc(ctx)
	}
	return []standingsdomain.PlayerStats{}, nil
}

func (f *FakeService) GetPlayer(ctx context.Context, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, id)
	}
	return nil, standingsdomain.ErrNotFound
}

func (f *FakeService) ListTournaments(ctx context.Context) ([]standingsdomain.TournamentRef, error) {
	f.record("ListTournaments")
	if f.ListTournamentsFunc != nil {
		return f.ListTournamentsFunc(ctx)
	}
	return []standingsdomain.TournamentRef{}, nil
}

func (f *FakeService) GetTournament(ctx context.Context, id standingsdomain.TournamentID) (*standingsdomain.TournamentDetail, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, id)
	}
	return nil, standingsdomain.ErrNotFound
}

func (f *FakeService) ExportTournament(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error) {
	f.record("ExportTournament")
	if f.ExportTournamentFunc != nil {
		return f.ExportTournamentFunc(ctx, id)
	}
	return nil, standingsdomain.ErrNotFound
}

func (f *FakeService) TournamentChart(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error) {
	f.record("TournamentChart")
	if f.TournamentChartFunc != nil {
		return f.TournamentChartFunc(ctx, id)
	}
	return nil, standingsdomain.ErrNotFound
}

func (f *FakeService) PlayerPlacementChart(ctx context.Context, id standingsdomain.PlayerID) ([]byte, error) {
	f.record("PlayerPlacementChart")
	if f.PlayerPlacementChartFunc != nil {
		return f.PlayerPlacementChartFunc(ctx, id)
	}
	return nil, standingsdomain.ErrNotFound
}

var _ standingsservice.Service = (*FakeService)(nil)
