package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiter stores per-IP rate limiters with automatic cleanup.
type ipLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     r,
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

func (ipl *ipLimiter) getLimiter(ip string) *rate.Limiter {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	entry, exists := ipl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(ipl.rate, ipl.burst)
		ipl.limiters[ip] = &limiterEntry{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	entry.lastSeen = time.Now()
	return entry.limiter
}

// prune drops limiters for clients not seen within the idle window.
func (ipl *ipLimiter) prune(now time.Time) int {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	removed := 0
	for ip, entry := range ipl.limiters {
		if now.Sub(entry.lastSeen) > ipl.idle {
			delete(ipl.limiters, ip)
			removed++
		}
	}
	return removed
}

// run prunes every interval until ctx is done.
func (ipl *ipLimiter) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ipl.prune(now)
		}
	}
}

// RateLimit returns middleware that limits requests per IP.
// r is the number of requests allowed per second, burst is the max burst size.
//
// Stale per-IP entries are pruned every 5 minutes until ctx is cancelled.
//
// Example: RateLimit(ctx, 0.5, 10) allows one new session every 2 seconds per
// client, with a burst of 10.
func RateLimit(ctx context.Context, r rate.Limit, burst int) func(http.Handler) http.Handler {
	ipl := newIPLimiter(r, burst)
	go ipl.run(ctx, 5*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r)
			limiter := ipl.getLimiter(ip)

			if !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP, preferring the first X-Forwarded-For hop and
// otherwise stripping the port from RemoteAddr.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
