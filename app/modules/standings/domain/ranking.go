package standingsdomain

import (
	"cmp"
	"slices"
)

// PlayerTotals is a player's pre-aggregated total over a whole tournament.
type PlayerTotals struct {
	PlayerID   PlayerID
	PlayerName string
	Total      PointTotals
}

// SessionTotals is a player's pre-aggregated subtotal for one session.
type SessionTotals struct {
	PlayerID  PlayerID
	SessionID SessionID
	Points    PointTotals
}

// CompareStandings orders two totals for ranking: placement points descending,
// then game points descending, then player id ascending. It never returns 0 for
// distinct players, so the order is total.
func CompareStandings(a, b PlayerTotals) int {
	if c := cmp.Compare(b.Total.PlacePoint, a.Total.PlacePoint); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Total.GamePoint, a.Total.GamePoint); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}

// RankStandings produces one StandingsEntry per player.
//
// Places are numbered densely over the sort order (1, 2, 3, ...) with no
// shared places, even for players tied on both sums. RoundPoint has one entry
// per session in the given session order; a session the player has no rows in
// gets a zero entry so every player's sequence has the same length.
//
// A session subtotal that references a session or player outside the given
// sets is reported as an integrity fault.
func RankStandings(sessions []SessionInfo, totals []PlayerTotals, rounds []SessionTotals) ([]StandingsEntry, error) {
	sessionIndex := make(map[SessionID]int, len(sessions))
	for i, s := range sessions {
		sessionIndex[s.ID] = i
	}

	roundPoints := make(map[PlayerID][]PointTotals, len(totals))
	for _, t := range totals {
		roundPoints[t.PlayerID] = make([]PointTotals, len(sessions))
	}

	for _, r := range rounds {
		idx, ok := sessionIndex[r.SessionID]
		if !ok {
			return nil, NewIntegrityError(IntegrityUnknownSession,
				"round points for player %d reference session %d", r.PlayerID, r.SessionID)
		}
		points, ok := roundPoints[r.PlayerID]
		if !ok {
			return nil, NewIntegrityError(IntegrityUnknownPlayer,
				"round points for session %d reference player %d without a total", r.SessionID, r.PlayerID)
		}
		points[idx] = points[idx].Add(r.Points)
	}

	sorted := make([]PlayerTotals, len(totals))
	copy(sorted, totals)
	slices.SortFunc(sorted, CompareStandings)

	entries := make([]StandingsEntry, len(sorted))
	for i, t := range sorted {
		entries[i] = StandingsEntry{
			PlayerID:        t.PlayerID,
			PlayerName:      t.PlayerName,
			TournamentPlace: i + 1,
			TotalPoint:      t.Total,
			RoundPoint:      roundPoints[t.PlayerID],
		}
	}

	return entries, nil
}
