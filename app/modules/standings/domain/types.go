package standingsdomain

// PlayerID identifies a registered player.
type PlayerID int64

// TournamentID identifies a tournament.
type TournamentID int64

// SessionID identifies a session (one round of tables) inside a tournament.
type SessionID int64

// GameID identifies a single four-player game.
type GameID int64

// SeatsPerGame is the number of results every game must carry.
const SeatsPerGame = 4

// PlayerInfo is a roster entry.
type PlayerInfo struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// PlayerResult is one player's outcome in one game. PlacePoint is derived from
// TablePoint by the scoring policy when the row is loaded and never changes afterwards.
type PlayerResult struct {
	PlayerID   PlayerID `json:"playerId"`
	PlayerName string   `json:"playerName"`
	TablePoint float64  `json:"tablePoint"`
	GamePoint  int      `json:"gamePoint"`
	PlacePoint float64  `json:"placePoint"`
}

// Game is one hand of play. PlayerResults keep the seat order of the source.
type Game struct {
	ID               GameID         `json:"id"`
	ForfeitGamePoint *int           `json:"forfeitGamePoint"`
	PlayerResults    []PlayerResult `json:"playerResults"`
}

// SessionInfo identifies a session.
type SessionInfo struct {
	ID   SessionID `json:"id"`
	Name string    `json:"name"`
}

// Session groups the games of one round, ordered by game id.
type Session struct {
	Info  SessionInfo `json:"info"`
	Games []Game      `json:"games"`

	// Tournament is carried for player-scoped history and is not part of the
	// tournament detail payload.
	Tournament TournamentRef `json:"-"`
}

// TournamentInfo is the descriptive metadata of a tournament.
type TournamentInfo struct {
	Name     string `json:"name"`
	SubName  string `json:"subName"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// TournamentRef pairs a tournament id with its metadata.
type TournamentRef struct {
	ID   TournamentID   `json:"id"`
	Info TournamentInfo `json:"info"`
}

// PointTotals is a pair of summable point quantities, plus the raw table sum
// that the placement points were derived from.
type PointTotals struct {
	TablePoint float64 `json:"tablePoint"`
	PlacePoint float64 `json:"placePoint"`
	GamePoint  int     `json:"gamePoint"`
}

// Add returns the component-wise sum of p and o.
func (p PointTotals) Add(o PointTotals) PointTotals {
	return PointTotals{
		TablePoint: p.TablePoint + o.TablePoint,
		PlacePoint: p.PlacePoint + o.PlacePoint,
		GamePoint:  p.GamePoint + o.GamePoint,
	}
}

// StandingsEntry is one player's line in a tournament's standings.
type StandingsEntry struct {
	PlayerID        PlayerID      `json:"playerId"`
	PlayerName      string        `json:"playerName"`
	TournamentPlace int           `json:"tournamentPlace"`
	TotalPoint      PointTotals   `json:"totalPoint"`
	RoundPoint      []PointTotals `json:"roundPoint"`
}

// TournamentDetail is the full tournament view.
type TournamentDetail struct {
	ID       TournamentID     `json:"id"`
	Info     TournamentInfo   `json:"info"`
	Summary  []StandingsEntry `json:"summary"`
	Sessions []Session        `json:"sessions"`
}

// PlayerStats holds a player's lifetime aggregates. Totals, averages and
// ratios are nil when the player has no recorded games. The rp fields carry
// placement points; ratios are fractions in [0, 1], not percentages.
type PlayerStats struct {
	ID               PlayerID `json:"id"`
	Name             string   `json:"name"`
	GameCount        int      `json:"gameCount"`
	GamePointTotal   *int     `json:"gpTotal"`
	TablePointTotal  *float64 `json:"tpTotal"`
	PlacePointTotal  *float64 `json:"rpTotal"`
	FirstPlaceCount  int      `json:"firstPlaceCount"`
	SecondPlaceCount int      `json:"secondPlaceCount"`
	ThirdPlaceCount  int      `json:"thirdPlaceCount"`
	FourthPlaceCount int      `json:"fourthPlaceCount"`
	GamePointAvg     *float64 `json:"gpAvg"`
	TablePointAvg    *float64 `json:"tpAvg"`
	PlacePointAvg    *float64 `json:"rpAvg"`
	FirstPlaceRatio  *float64 `json:"firstPlaceRatio"`
	SecondPlaceRatio *float64 `json:"secondPlaceRatio"`
	ThirdPlaceRatio  *float64 `json:"thirdPlaceRatio"`
	FourthPlaceRatio *float64 `json:"fourthPlaceRatio"`
}

// GameDetail is one game of a player's match history, with every opponent.
type GameDetail struct {
	GameID             GameID         `json:"gameId"`
	TournamentID       TournamentID   `json:"tournamentId"`
	TournamentName     string         `json:"tournamentName"`
	TournamentSubName  string         `json:"tournamentSubName"`
	TournamentLocation string         `json:"tournamentLocation"`
	TournamentDate     string         `json:"tournamentDate"`
	SessionName        string         `json:"sessionName"`
	Players            []PlayerResult `json:"players"`
}

// PlayerDetail is a player's lifetime stats plus full match history.
type PlayerDetail struct {
	PlayerStats
	GameDetails []GameDetail `json:"gameDetails"`
}
