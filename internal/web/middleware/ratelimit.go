package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// slidingWindow tracks request timestamps for one client. The sliding window
// avoids the burst-at-boundary problem of fixed windows.
type slidingWindow struct {
	timestamps []time.Time
}

// cleanup drops timestamps that have left the window.
func (w *slidingWindow) cleanup(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}

// RateLimiter limits requests per client IP over a sliding window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*slidingWindow
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window per
// client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*slidingWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// sweep drops clients whose windows have emptied so the map does not grow
// without bound across distinct IPs. Caller must hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, w := range rl.clients {
		w.cleanup(now, rl.window)
		if len(w.timestamps) == 0 {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// allow records a request for key and reports whether it is within the limit,
// along with the time at which the window resets.
func (rl *RateLimiter) allow(key string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(now)
	}
	w, ok := rl.clients[key]
	if !ok {
		w = &slidingWindow{}
		rl.clients[key] = w
	}
	w.cleanup(now, rl.window)

	if len(w.timestamps) >= rl.limit {
		return false, w.timestamps[0].Add(rl.window)
	}
	w.timestamps = append(w.timestamps, now)
	return true, w.timestamps[0].Add(rl.window)
}

// clientIP extracts the client address; chi's RealIP middleware has already
// resolved X-Forwarded-For into RemoteAddr by the time we run.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler returns middleware enforcing the rate limit. Rejected requests get
// a 429 with a Retry-After header.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, resetAt := rl.allow(clientIP(r))
		if !ok {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests, please try again later"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
