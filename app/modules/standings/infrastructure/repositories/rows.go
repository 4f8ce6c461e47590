package standingsdb

import (
	"encoding/json"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
)

// resultPayload is one element of a gameRow's results array. Pointer fields
// let a missing key be told apart from a zero value.
type resultPayload struct {
	PlayerID   *int64   `json:"playerId"`
	PlayerName *string  `json:"playerName"`
	GamePoint  *int     `json:"gamePoint"`
	TablePoint *float64 `json:"tablePoint"`
}

// expandGameRow turns one aggregated game row into one HierarchyRow per
// result, keeping the array order and applying the scoring policy.
func expandGameRow(g *gameRow, policy standingsdomain.ScoringPolicy) ([]standingsdomain.HierarchyRow, error) {
	if len(g.Results) == 0 || string(g.Results) == "null" {
		return nil, standingsdomain.NewIntegrityError(standingsdomain.IntegrityIncompleteGame,
			"game %d has no player results", g.GameID)
	}

	var payload []resultPayload
	if err := json.Unmarshal(g.Results, &payload); err != nil {
		ie := standingsdomain.NewIntegrityError(standingsdomain.IntegrityMalformedRow,
			"game %d results do not decode", g.GameID)
		ie.Err = err
		return nil, ie
	}

	tournament := standingsdomain.TournamentRef{
		ID: standingsdomain.TournamentID(g.TournamentID),
		Info: standingsdomain.TournamentInfo{
			Name:     g.TournamentName,
			SubName:  g.SubName,
			Date:     g.Date.Format(DateLayout),
			Location: g.Location,
		},
	}

	rows := make([]standingsdomain.HierarchyRow, 0, len(payload))
	for i, p := range payload {
		if p.PlayerID == nil || p.PlayerName == nil || p.GamePoint == nil || p.TablePoint == nil {
			return nil, standingsdomain.NewIntegrityError(standingsdomain.IntegrityMalformedRow,
				"game %d result %d is missing a field", g.GameID, i)
		}
		rows = append(rows, standingsdomain.HierarchyRow{
			Tournament:       tournament,
			SessionID:        standingsdomain.SessionID(g.SessionID),
			SessionName:      g.SessionName,
			GameID:           standingsdomain.GameID(g.GameID),
			ForfeitGamePoint: g.ForfeitGamePoint,
			Result: standingsdomain.PlayerResult{
				PlayerID:   standingsdomain.PlayerID(*p.PlayerID),
				PlayerName: *p.PlayerName,
				TablePoint: *p.TablePoint,
				GamePoint:  *p.GamePoint,
				PlacePoint: policy.PlacePoint(*p.TablePoint),
			},
		})
	}
	return rows, nil
}
