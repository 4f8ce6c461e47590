package standingsdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Player is a registered player.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

// Tournament is a tournament's descriptive row.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID       int64     `bun:"id,pk,autoincrement"`
	Name     string    `bun:"name,notnull"`
	SubName  string    `bun:"sub_name,notnull,default:''"`
	Date     time.Time `bun:"date,type:date,notnull"`
	Location string    `bun:"location,notnull,default:''"`
}

// Session is a named group of games inside a tournament.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           int64  `bun:"id,pk,autoincrement"`
	TournamentID int64  `bun:"tournament_id,notnull"`
	Name         string `bun:"name,notnull"`
}

// Game is one four-player game inside a session.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID               int64 `bun:"id,pk,autoincrement"`
	SessionID        int64 `bun:"session_id,notnull"`
	ForfeitGamePoint *int  `bun:"forfeit_game_point"`
}

// GameResult is one seat of a game. Seat orders the results inside a game.
type GameResult struct {
	bun.BaseModel `bun:"table:game_results,alias:r"`

	ID         int64   `bun:"id,pk,autoincrement"`
	GameID     int64   `bun:"game_id,notnull"`
	PlayerID   int64   `bun:"player_id,notnull"`
	Seat       int     `bun:"seat,notnull"`
	GamePoint  int     `bun:"game_point,notnull"`
	TablePoint float64 `bun:"table_point,type:double precision,notnull"`
}

// Models lists every table the queries read, parents first.
var Models = []any{
	(*Player)(nil),
	(*Tournament)(nil),
	(*Session)(nil),
	(*Game)(nil),
	(*GameResult)(nil),
}

// resultRow is a single raw result used for lifetime statistics.
type resultRow struct {
	PlayerID   int64   `bun:"player_id"`
	GamePoint  int     `bun:"game_point"`
	TablePoint float64 `bun:"table_point"`
}

// totalsRow is one player's pre-aggregated sums over a tournament.
type totalsRow struct {
	PlayerID   int64   `bun:"player_id"`
	PlayerName string  `bun:"player_name"`
	PlacePoint float64 `bun:"place_point"`
	GamePoint  int     `bun:"game_point"`
	TablePoint float64 `bun:"table_point"`
}

// roundTotalsRow is one (player, session) pre-aggregated subtotal.
type roundTotalsRow struct {
	PlayerID   int64   `bun:"player_id"`
	SessionID  int64   `bun:"session_id"`
	PlacePoint float64 `bun:"place_point"`
	GamePoint  int     `bun:"game_point"`
	TablePoint float64 `bun:"table_point"`
}

// gameRow is one game with its results aggregated into a JSON array.
type gameRow struct {
	TournamentID     int64     `bun:"tournament_id"`
	TournamentName   string    `bun:"tournament_name"`
	SubName          string    `bun:"sub_name"`
	Date             time.Time `bun:"date"`
	Location         string    `bun:"location"`
	SessionID        int64     `bun:"session_id"`
	SessionName      string    `bun:"session_name"`
	GameID           int64     `bun:"game_id"`
	ForfeitGamePoint *int      `bun:"forfeit_game_point"`
	Results          []byte    `bun:"results"`
}
