package standings

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	standingshandlers "github.com/majiang-league/majiang-stats/app/modules/standings/infrastructure/handlers"
	"github.com/majiang-league/majiang-stats/app/shared/observability"
	"github.com/majiang-league/majiang-stats/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObservability(t *testing.T) observability.Observability {
	t.Helper()
	obs, err := observability.Init(context.Background(), observability.Config{Output: io.Discard})
	require.NoError(t, err)
	return obs
}

func TestNewModule_RegistersRoutes(t *testing.T) {
	r := chi.NewRouter()
	m, err := NewModule(context.Background(), &config.Config{}, testObservability(t), nil, r, nil)
	require.NoError(t, err)
	require.NotNil(t, m.GetService())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, standingshandlers.WelcomeMessage, rr.Body.String())
}

func TestNewModule_RejectsUnknownPolicy(t *testing.T) {
	cfg := &config.Config{Scoring: config.ScoringConfig{Policy: "uma"}}

	_, err := NewModule(context.Background(), cfg, testObservability(t), nil, nil, nil)
	assert.ErrorContains(t, err, "scoring policy")
}

func TestModule_RunAndClose(t *testing.T) {
	m, err := NewModule(context.Background(), &config.Config{}, testObservability(t), nil, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go m.Run(ctx, &wg)

	cancel()
	wg.Wait()
	assert.NoError(t, m.Close())
}

func TestModule_CloseBeforeRunStarts(t *testing.T) {
	m, err := NewModule(context.Background(), &config.Config{}, testObservability(t), nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go m.Run(context.Background(), &wg)
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
