package standingshandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	standingsdomain "github.com/majiang-league/majiang-stats/app/modules/standings/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *FakeService) *StandingsHandlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewStandingsHandlers(svc, logger, tracer).(*StandingsHandlers)
}

// testRouter mounts the handlers the same way the module router does.
func testRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/", h.HandleWelcome)
	r.Get("/api/players", h.HandleListPlayers)
	r.Get("/api/player_stats", h.HandleListPlayerStats)
	r.Get("/api/players/{playerID}", h.HandleGetPlayer)
	r.Get("/api/players/{playerID}/chart.png", h.HandlePlayerChart)
	r.Get("/api/tournaments", h.HandleListTournaments)
	r.Get("/api/tournaments/{tournamentID}", h.HandleGetTournament)
	r.Get("/api/tournaments/{tournamentID}/standings.xlsx", h.HandleTournamentWorkbook)
	r.Get("/api/tournaments/{tournamentID}/chart.png", h.HandleTournamentChart)
	return r
}

func serve(t *testing.T, h Handlers, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rr, req)
	return rr
}

func TestHandleWelcome(t *testing.T) {
	rr := serve(t, newTestHandlers(&FakeService{}), "/api/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, WelcomeMessage, rr.Body.String())
}

func TestHandleListPlayers(t *testing.T) {
	svc := &FakeService{
		ListPlayersFunc: func(ctx context.Context) ([]standingsdomain.PlayerInfo, error) {
			return []standingsdomain.PlayerInfo{{ID: 1, Name: "土屋"}, {ID: 2, Name: "赤塚"}}, nil
		},
	}

	rr := serve(t, newTestHandlers(svc), "/api/players")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypeJSON, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":1,"name":"土屋"},{"id":2,"name":"赤塚"}]`, rr.Body.String())
}

func TestHandleListPlayerStats_NullAggregates(t *testing.T) {
	svc := &FakeService{
		ListPlayerStatsFunc: func(ctx context.Context) ([]standingsdomain.PlayerStats, error) {
			return []standingsdomain.PlayerStats{standingsdomain.AccumulateStats(5, "新人", nil)}, nil
		},
	}

	rr := serve(t, newTestHandlers(svc), "/api/player_stats")
	require.Equal(t, http.StatusOK, rr.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, float64(0), body[0]["gameCount"])
	assert.Contains(t, body[0], "gpAvg")
	assert.Nil(t, body[0]["gpAvg"])
	assert.Contains(t, body[0], "rpTotal")
	assert.Nil(t, body[0]["rpAvg"])
	assert.Nil(t, body[0]["firstPlaceRatio"])
}

func TestHandleGetPlayer(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(*FakeService)
		wantStatus int
		wantCalls  []string
	}{
		{
			name: "found",
			path: "/api/players/3",
			setup: func(s *FakeService) {
				s.GetPlayerFunc = func(ctx context.Context, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error) {
					return &standingsdomain.PlayerDetail{
						PlayerStats: standingsdomain.PlayerStats{ID: id, Name: "小林"},
						GameDetails: []standingsdomain.GameDetail{},
					}, nil
				}
			},
			wantStatus: http.StatusOK,
			wantCalls:  []string{"GetPlayer"},
		},
		{
			name:       "not found",
			path:       "/api/players/3",
			setup:      func(s *FakeService) {},
			wantStatus: http.StatusNotFound,
			wantCalls:  []string{"GetPlayer"},
		},
		{
			name:       "invalid id",
			path:       "/api/players/abc",
			setup:      func(s *FakeService) {},
			wantStatus: http.StatusBadRequest,
			wantCalls:  []string{},
		},
		{
			name:       "non-positive id",
			path:       "/api/players/0",
			setup:      func(s *FakeService) {},
			wantStatus: http.StatusBadRequest,
			wantCalls:  []string{},
		},
		{
			name: "integrity fault",
			path: "/api/players/3",
			setup: func(s *FakeService) {
				s.GetPlayerFunc = func(ctx context.Context, id standingsdomain.PlayerID) (*standingsdomain.PlayerDetail, error) {
					return nil, standingsdomain.NewIntegrityError(standingsdomain.IntegrityIncompleteGame, "game 1 has 3 player results, want 4")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantCalls:  []string{"GetPlayer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{trace: []string{}}
			tt.setup(svc)

			rr := serve(t, newTestHandlers(svc), tt.path)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, svc.Trace())
			if tt.wantStatus == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, "小林", body["name"])
				assert.Contains(t, body, "gameDetails")
			}
		})
	}
}

func TestHandleGetTournament(t *testing.T) {
	svc := &FakeService{
		GetTournamentFunc: func(ctx context.Context, id standingsdomain.TournamentID) (*standingsdomain.TournamentDetail, error) {
			if id != 1 {
				return nil, standingsdomain.ErrNotFound
			}
			return &standingsdomain.TournamentDetail{
				ID:       1,
				Info:     standingsdomain.TournamentInfo{Name: "春季", Date: "2023-06-20"},
				Summary:  []standingsdomain.StandingsEntry{},
				Sessions: []standingsdomain.Session{},
			}, nil
		},
	}
	h := newTestHandlers(svc)

	rr := serve(t, h, "/api/tournaments/1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":1,"info":{"name":"春季","subName":"","date":"2023-06-20","location":""},"summary":[],"sessions":[]}`, rr.Body.String())

	rr = serve(t, h, "/api/tournaments/2")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rr.Body.String())
}

func TestHandleListTournaments_Error(t *testing.T) {
	svc := &FakeService{
		ListTournamentsFunc: func(ctx context.Context) ([]standingsdomain.TournamentRef, error) {
			return nil, errors.New("database connection failed")
		},
	}

	rr := serve(t, newTestHandlers(svc), "/api/tournaments")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "database connection failed")
}

func TestHandleBinaryResponses(t *testing.T) {
	svc := &FakeService{
		ExportTournamentFunc: func(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error) {
			return []byte("PK-workbook"), nil
		},
		TournamentChartFunc: func(ctx context.Context, id standingsdomain.TournamentID) ([]byte, error) {
			return []byte("png-tournament"), nil
		},
		PlayerPlacementChartFunc: func(ctx context.Context, id standingsdomain.PlayerID) ([]byte, error) {
			return []byte("png-player"), nil
		},
	}
	h := newTestHandlers(svc)

	rr := serve(t, h, "/api/tournaments/4/standings.xlsx")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypeXLSX, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="tournament-4-standings.xlsx"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-workbook", rr.Body.String())

	rr = serve(t, h, "/api/tournaments/4/chart.png")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypePNG, rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-tournament", rr.Body.String())

	rr = serve(t, h, "/api/players/2/chart.png")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png-player", rr.Body.String())
}

func TestBuildReply(t *testing.T) {
	h := newTestHandlers(&FakeService{})
	ctx := context.Background()

	ok := func(ctx context.Context, req Request) (any, error) {
		return map[string]int64{"id": req.ID}, nil
	}

	tests := []struct {
		name       string
		data       []byte
		needsID    bool
		op         natsOp
		wantStatus int
		wantData   bool
	}{
		{name: "empty body for list", data: nil, op: ok, wantStatus: http.StatusOK, wantData: true},
		{name: "id request", data: []byte(`{"id":3}`), needsID: true, op: ok, wantStatus: http.StatusOK, wantData: true},
		{name: "missing id", data: []byte(`{}`), needsID: true, op: ok, wantStatus: http.StatusBadRequest},
		{name: "malformed body", data: []byte(`{"id":`), op: ok, wantStatus: http.StatusBadRequest},
		{
			name: "not found", data: []byte(`{"id":3}`), needsID: true,
			op: func(ctx context.Context, req Request) (any, error) {
				return nil, standingsdomain.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "internal error", data: nil,
			op: func(ctx context.Context, req Request) (any, error) {
				return nil, errors.New("boom")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := h.buildReply(ctx, tt.data, tt.needsID, tt.op)

			assert.Equal(t, tt.wantStatus, reply.Status)
			if tt.wantData {
				assert.NotNil(t, reply.Data)
				assert.Empty(t, reply.Error)
			} else {
				assert.Nil(t, reply.Data)
				assert.NotEmpty(t, reply.Error)
			}
		})
	}
}

func TestReplyEncoding(t *testing.T) {
	data, err := json.Marshal(Reply{Status: http.StatusNotFound, Error: "Not Found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":404,"error":"Not Found"}`, string(data))
}
