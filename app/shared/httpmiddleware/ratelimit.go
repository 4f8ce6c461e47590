// Package httpmiddleware holds the chi middleware stack shared by the HTTP API.
package httpmiddleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle client entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address.
type IPRateLimiter struct {
	clients map[string]*clientEntry
	mu      sync.Mutex
	r       rate.Limit
	b       int
	now     func() time.Time
}

// NewIPRateLimiter allows r requests per second per client with bursts of b.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*clientEntry),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

// Limiter returns the bucket for ip, pruning idle clients once the table
// grows past cleanupThreshold.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.clients {
			if e.lastSeen.Before(cutoff) {
				delete(l.clients, k)
			}
		}
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Len reports how many clients are tracked.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit rejects requests over the client's budget with 429.
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.Limiter(ip).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
