// Package middleware provides the HTTP middleware stack for the service.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// limiter keeps a fixed-window counter per client address. Stale windows
// are swept opportunistically on lookup so memory stays bounded without a
// background goroutine.
type limiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	counts    map[string]*window
	lastSweep time.Time
}

type window struct {
	hits    int
	resetAt time.Time
}

func newLimiter(max int, period time.Duration) *limiter {
	return &limiter{
		max:       max,
		window:    period,
		counts:    make(map[string]*window),
		lastSweep: time.Now(),
	}
}

func (l *limiter) take(addr string) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.window {
		for a, w := range l.counts {
			if now.After(w.resetAt) {
				delete(l.counts, a)
			}
		}
		l.lastSweep = now
	}

	w, exists := l.counts[addr]
	if !exists || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.window)}
		l.counts[addr] = w
	}
	w.hits++
	if w.hits > l.max {
		return false, time.Until(w.resetAt)
	}
	return true, 0
}

// clientAddr picks the address a limit applies to. The first entry of
// X-Forwarded-For wins when a proxy set it, otherwise the socket peer
// with the port stripped.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns a middleware that limits each client to max requests
// per window, answering 429 with a Retry-After hint once exceeded.
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, period)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := l.take(clientAddr(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":429,"message":"Too Many Requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
