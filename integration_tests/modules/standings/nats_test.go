package standingsintegrationtests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/majiang-league/majiang-stats/app/modules/standings"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	standingsrouter "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/router"
	"github.com/majiang-league/majiang-stats/app/shared/observability"
	"github.com/majiang-league/majiang-stats/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type natsReply struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func TestNATS_RequestReply(t *testing.T) {
	deps := SetupTestStandings(t, standingsdomain.FixedTablePolicy{}, generateLeague(t, 111))

	obs, err := observability.Init(context.Background(), observability.Config{Output: io.Discard})
	require.NoError(t, err)

	module, err := standings.NewModule(context.Background(), deps.Config, obs, deps.NatsConn, nil, deps.DB)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go module.Run(ctx, &wg)
	t.Cleanup(func() {
		cancel()
		wg.Wait()
		_ = module.Close()
	})

	request := func(subject string, body any) natsReply {
		t.Helper()
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		var reply natsReply
		err = testutils.WaitFor(10*time.Second, 200*time.Millisecond, func() error {
			msg, err := deps.NatsConn.Request(subject, payload, time.Second)
			if err != nil {
				return err
			}
			return json.Unmarshal(msg.Data, &reply)
		})
		require.NoError(t, err)
		return reply
	}

	t.Run("players", func(t *testing.T) {
		reply := request(standingsrouter.PlayersListSubject, struct{}{})
		require.Equal(t, http.StatusOK, reply.Status)

		var players []standingsdomain.PlayerInfo
		require.NoError(t, json.Unmarshal(reply.Data, &players))
		assert.Len(t, players, len(deps.League.Players))
	})

	t.Run("tournament", func(t *testing.T) {
		reply := request(standingsrouter.TournamentGetSubject, map[string]int64{"id": 2})
		require.Equal(t, http.StatusOK, reply.Status)

		var detail standingsdomain.TournamentDetail
		require.NoError(t, json.Unmarshal(reply.Data, &detail))
		assert.Equal(t, standingsdomain.TournamentID(2), detail.ID)
		assert.Len(t, detail.Sessions, 3)
	})

	t.Run("tournament not found", func(t *testing.T) {
		reply := request(standingsrouter.TournamentGetSubject, map[string]int64{"id": 404})
		assert.Equal(t, http.StatusNotFound, reply.Status)
		assert.Empty(t, reply.Data)
	})

	t.Run("missing id", func(t *testing.T) {
		reply := request(standingsrouter.PlayerGetSubject, struct{}{})
		assert.Equal(t, http.StatusBadRequest, reply.Status)
	})
}
