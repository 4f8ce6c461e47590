package httpmiddleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	h := RateLimit(limiter)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "other clients keep their own budget")
}

func TestIPRateLimiter_PrunesIdleClients(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i <= cleanupThreshold; i++ {
		limiter.Limiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Greater(t, limiter.Len(), cleanupThreshold)

	now = now.Add(maxIdleAge + time.Minute)
	limiter.Limiter("192.168.0.1")

	assert.Equal(t, 1, limiter.Len())
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{name: "allowed origin", allowed: []string{"https://majiang.example"}, method: http.MethodGet, origin: "https://majiang.example", wantOrigin: "https://majiang.example", wantStatus: http.StatusOK},
		{name: "unknown origin", allowed: []string{"https://majiang.example"}, method: http.MethodGet, origin: "https://evil.example", wantOrigin: "", wantStatus: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, method: http.MethodGet, origin: "https://any.example", wantOrigin: "*", wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"https://majiang.example"}, method: http.MethodOptions, origin: "https://majiang.example", wantOrigin: "https://majiang.example", wantStatus: http.StatusNoContent},
		{name: "no origin header", allowed: nil, method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/tournaments", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed)(okHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	t.Run("generates", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})

	t.Run("propagates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	reg := prometheus.NewRegistry()
	metrics, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(RequestID, AccessLog(logger, metrics))
	r.Get("/api/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/players/9", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, buf.String(), `"route":"/api/players/{playerID}"`)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "/api/players/{playerID}", "404")))
}
