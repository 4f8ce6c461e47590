package standingsdb

import (
	"testing"
	"time"

	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGameRow(results string) *gameRow {
	forfeit := -20
	return &gameRow{
		TournamentID:     1,
		TournamentName:   "春季リーグ",
		SubName:          "本戦",
		Date:             time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC),
		Location:         "大阪",
		SessionID:        3,
		SessionName:      "第2節",
		GameID:           12,
		ForfeitGamePoint: &forfeit,
		Results:          []byte(results),
	}
}

func TestExpandGameRow(t *testing.T) {
	row := testGameRow(`[
		{"playerId": 4, "playerName": "d", "gamePoint": 45, "tablePoint": 4},
		{"playerId": 2, "playerName": "b", "gamePoint": 5, "tablePoint": 3},
		{"playerId": 1, "playerName": "a", "gamePoint": -15, "tablePoint": 2},
		{"playerId": 3, "playerName": "c", "gamePoint": -35, "tablePoint": 1}
	]`)

	rows, err := expandGameRow(row, standingsdomain.FixedTablePolicy{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	ids := make([]standingsdomain.PlayerID, len(rows))
	for i, r := range rows {
		ids[i] = r.Result.PlayerID
		assert.Equal(t, standingsdomain.SessionID(3), r.SessionID)
		assert.Equal(t, "第2節", r.SessionName)
		assert.Equal(t, standingsdomain.GameID(12), r.GameID)
		assert.Equal(t, -20, *r.ForfeitGamePoint)
		assert.Equal(t, "2023-06-20", r.Tournament.Info.Date)
		assert.Equal(t, "大阪", r.Tournament.Info.Location)
	}
	assert.Equal(t, []standingsdomain.PlayerID{4, 2, 1, 3}, ids)
	assert.Equal(t, 3.0, rows[0].Result.PlacePoint)
	assert.Equal(t, -3.0, rows[3].Result.PlacePoint)
}

func TestExpandGameRow_LinearPolicy(t *testing.T) {
	row := testGameRow(`[{"playerId": 1, "playerName": "a", "gamePoint": 0, "tablePoint": 1.5}]`)

	rows, err := expandGameRow(row, standingsdomain.LinearPolicy{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, -2.0, rows[0].Result.PlacePoint)
	assert.Equal(t, 1.5, rows[0].Result.TablePoint)
}

func TestExpandGameRow_Faults(t *testing.T) {
	tests := []struct {
		name    string
		results string
		kind    standingsdomain.IntegrityKind
	}{
		{name: "null aggregate", results: "null", kind: standingsdomain.IntegrityIncompleteGame},
		{name: "empty payload", results: "", kind: standingsdomain.IntegrityIncompleteGame},
		{name: "not json", results: "{oops", kind: standingsdomain.IntegrityMalformedRow},
		{name: "wrong shape", results: `{"playerId": 1}`, kind: standingsdomain.IntegrityMalformedRow},
		{name: "wrong type", results: `[{"playerId": "x", "playerName": "a", "gamePoint": 1, "tablePoint": 1}]`, kind: standingsdomain.IntegrityMalformedRow},
		{name: "missing field", results: `[{"playerId": 1, "playerName": "a", "gamePoint": 1}]`, kind: standingsdomain.IntegrityMalformedRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expandGameRow(testGameRow(tt.results), standingsdomain.FixedTablePolicy{})
			require.ErrorIs(t, err, standingsdomain.ErrDataIntegrity)
			assert.Equal(t, tt.kind, standingsdomain.IntegrityKindOf(err))
		})
	}
}
