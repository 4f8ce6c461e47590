package standingsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/uptrace/bun"
)

// DateLayout is how tournament dates are rendered in every response.
const DateLayout = "2006-01-02"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db     bun.IDB
	policy standingsdomain.ScoringPolicy
}

// NewRepository creates a new standings repository. The scoring policy is
// applied to every result the repository loads.
func NewRepository(db bun.IDB, policy standingsdomain.ScoringPolicy) Repository {
	return &Impl{db: db, policy: policy}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB) ([]standingsdomain.PlayerInfo, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Order("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	out := make([]standingsdomain.PlayerInfo, len(players))
	for i, p := range players {
		out[i] = standingsdomain.PlayerInfo{ID: standingsdomain.PlayerID(p.ID), Name: p.Name}
	}
	return out, nil
}

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, id standingsdomain.PlayerID) (*standingsdomain.PlayerInfo, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p.id = ?", int64(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &standingsdomain.PlayerInfo{ID: standingsdomain.PlayerID(player.ID), Name: player.Name}, nil
}

func (r *Impl) ListResultSamples(ctx context.Context, db bun.IDB, filter ResultFilter) ([]PlayerSample, error) {
	db = r.resolveDB(db)
	var rows []resultRow
	q := db.NewSelect().
		Model((*GameResult)(nil)).
		ColumnExpr("r.player_id, r.game_point, r.table_point")
	if filter.PlayerID != 0 {
		q = q.Where("r.player_id = ?", int64(filter.PlayerID))
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list result samples: %w", err)
	}

	out := make([]PlayerSample, len(rows))
	for i, row := range rows {
		out[i] = PlayerSample{
			PlayerID: standingsdomain.PlayerID(row.PlayerID),
			Sample: standingsdomain.ResultSample{
				GamePoint:  row.GamePoint,
				TablePoint: row.TablePoint,
				PlacePoint: r.policy.PlacePoint(row.TablePoint),
				Placement:  r.policy.Placement(row.TablePoint),
			},
		}
	}
	return out, nil
}

func (r *Impl) ListTournaments(ctx context.Context, db bun.IDB) ([]standingsdomain.TournamentRef, error) {
	db = r.resolveDB(db)
	var tournaments []Tournament
	err := db.NewSelect().
		Model(&tournaments).
		Order("t.date DESC", "t.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	out := make([]standingsdomain.TournamentRef, len(tournaments))
	for i := range tournaments {
		out[i] = tournamentRef(&tournaments[i])
	}
	return out, nil
}

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id standingsdomain.TournamentID) (*standingsdomain.TournamentRef, error) {
	db = r.resolveDB(db)
	tournament := new(Tournament)
	err := db.NewSelect().
		Model(tournament).
		Where("t.id = ?", int64(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	ref := tournamentRef(tournament)
	return &ref, nil
}

func (r *Impl) ListSessions(ctx context.Context, db bun.IDB, tournamentID standingsdomain.TournamentID) ([]standingsdomain.SessionInfo, error) {
	db = r.resolveDB(db)
	var sessions []Session
	err := db.NewSelect().
		Model(&sessions).
		Where("s.tournament_id = ?", int64(tournamentID)).
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]standingsdomain.SessionInfo, len(sessions))
	for i, s := range sessions {
		out[i] = standingsdomain.SessionInfo{ID: standingsdomain.SessionID(s.ID), Name: s.Name}
	}
	return out, nil
}

func (r *Impl) GetTournamentSummary(ctx context.Context, db bun.IDB, tournamentID standingsdomain.TournamentID) ([]standingsdomain.PlayerTotals, error) {
	db = r.resolveDB(db)
	var rows []totalsRow
	err := db.NewSelect().
		Model((*GameResult)(nil)).
		ColumnExpr("r.player_id").
		ColumnExpr("p.name AS player_name").
		ColumnExpr("SUM(" + r.policy.SQLExpr("r.table_point") + ") AS place_point").
		ColumnExpr("SUM(r.game_point) AS game_point").
		ColumnExpr("SUM(r.table_point) AS table_point").
		Join("JOIN games AS g ON g.id = r.game_id").
		Join("JOIN sessions AS s ON s.id = g.session_id").
		Join("JOIN players AS p ON p.id = r.player_id").
		Where("s.tournament_id = ?", int64(tournamentID)).
		GroupExpr("r.player_id, p.name").
		OrderExpr("r.player_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament summary: %w", err)
	}

	out := make([]standingsdomain.PlayerTotals, len(rows))
	for i, row := range rows {
		out[i] = standingsdomain.PlayerTotals{
			PlayerID:   standingsdomain.PlayerID(row.PlayerID),
			PlayerName: row.PlayerName,
			Total: standingsdomain.PointTotals{
				TablePoint: row.TablePoint,
				PlacePoint: row.PlacePoint,
				GamePoint:  row.GamePoint,
			},
		}
	}
	return out, nil
}

func (r *Impl) GetTournamentRoundTotals(ctx context.Context, db bun.IDB, tournamentID standingsdomain.TournamentID) ([]standingsdomain.SessionTotals, error) {
	db = r.resolveDB(db)
	var rows []roundTotalsRow
	err := db.NewSelect().
		Model((*GameResult)(nil)).
		ColumnExpr("r.player_id").
		ColumnExpr("g.session_id").
		ColumnExpr("SUM(" + r.policy.SQLExpr("r.table_point") + ") AS place_point").
		ColumnExpr("SUM(r.game_point) AS game_point").
		ColumnExpr("SUM(r.table_point) AS table_point").
		Join("JOIN games AS g ON g.id = r.game_id").
		Join("JOIN sessions AS s ON s.id = g.session_id").
		Where("s.tournament_id = ?", int64(tournamentID)).
		GroupExpr("r.player_id, g.session_id").
		OrderExpr("r.player_id ASC, g.session_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament round totals: %w", err)
	}

	out := make([]standingsdomain.SessionTotals, len(rows))
	for i, row := range rows {
		out[i] = standingsdomain.SessionTotals{
			PlayerID:  standingsdomain.PlayerID(row.PlayerID),
			SessionID: standingsdomain.SessionID(row.SessionID),
			Points: standingsdomain.PointTotals{
				TablePoint: row.TablePoint,
				PlacePoint: row.PlacePoint,
				GamePoint:  row.GamePoint,
			},
		}
	}
	return out, nil
}

// hierarchyQuery selects one row per game with the game's results folded
// into a JSON array in seat order.
const hierarchyQuery = `
SELECT
	t.id AS tournament_id,
	t.name AS tournament_name,
	t.sub_name,
	t.date,
	t.location,
	s.id AS session_id,
	s.name AS session_name,
	g.id AS game_id,
	g.forfeit_game_point,
	(
		SELECT json_agg(json_build_object(
			'playerId', r.player_id,
			'playerName', p.name,
			'gamePoint', r.game_point,
			'tablePoint', r.table_point
		) ORDER BY r.seat, r.id)
		FROM game_results AS r
		JOIN players AS p ON p.id = r.player_id
		WHERE r.game_id = g.id
	) AS results
FROM games AS g
JOIN sessions AS s ON s.id = g.session_id
JOIN tournaments AS t ON t.id = s.tournament_id
WHERE ?
ORDER BY s.id ASC, g.id ASC`

func (r *Impl) ListHierarchyRows(ctx context.Context, db bun.IDB, scope HierarchyScope) ([]standingsdomain.HierarchyRow, error) {
	db = r.resolveDB(db)

	var where string
	var args []any
	switch {
	case scope.TournamentID != 0:
		where = "s.tournament_id = ?"
		args = append(args, int64(scope.TournamentID))
	case scope.PlayerID != 0:
		where = "g.id IN (SELECT game_id FROM game_results WHERE player_id = ?)"
		args = append(args, int64(scope.PlayerID))
	default:
		return nil, errors.New("failed to list hierarchy rows: empty scope")
	}

	var games []gameRow
	query := db.NewRaw(hierarchyQuery, bun.SafeQuery(where, args...))
	if err := query.Scan(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to list hierarchy rows: %w", err)
	}

	rows := make([]standingsdomain.HierarchyRow, 0, len(games)*standingsdomain.SeatsPerGame)
	for i := range games {
		expanded, err := expandGameRow(&games[i], r.policy)
		if err != nil {
			return nil, err
		}
		rows = append(rows, expanded...)
	}
	return rows, nil
}

func tournamentRef(t *Tournament) standingsdomain.TournamentRef {
	return standingsdomain.TournamentRef{
		ID: standingsdomain.TournamentID(t.ID),
		Info: standingsdomain.TournamentInfo{
			Name:     t.Name,
			SubName:  t.SubName,
			Date:     t.Date.Format(DateLayout),
			Location: t.Location,
		},
	}
}
