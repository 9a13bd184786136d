package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/agentstation/skyview/internal/server/response"
)

// staleAfter is how long an idle client keeps its token bucket.
const staleAfter = 10 * time.Minute

// RateLimiter applies a token bucket per client IP with a global ceiling.
type RateLimiter struct {
	mu     sync.Mutex
	perIP  map[string]*clientLimiter
	global *rate.Limiter

	rps    rate.Limit
	burst  int
	logger *zerolog.Logger

	// onDrop, when set, observes every rejected request.
	onDrop func()
}

// clientLimiter tracks rate limit state for a single IP.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a per-IP limiter allowing rps requests per second
// with the given burst. The global ceiling is ten clients' worth, so one
// noisy dashboard cannot starve the rest.
func NewRateLimiter(rps float64, burst int, logger *zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		perIP:  make(map[string]*clientLimiter),
		global: rate.NewLimiter(rate.Limit(rps*10), burst*10),
		rps:    rate.Limit(rps),
		burst:  burst,
		logger: logger,
	}
}

// OnDrop registers a callback invoked for every rejected request.
func (rl *RateLimiter) OnDrop(fn func()) {
	rl.onDrop = fn
}

// allow checks if a request from the IP is allowed.
func (rl *RateLimiter) allow(ip string) bool {
	if !rl.global.Allow() {
		return false
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.perIP[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.perIP[ip] = client
	}
	client.lastSeen = time.Now()

	if len(rl.perIP) > 10_000 {
		rl.cleanupLocked(time.Now().Add(-staleAfter))
	}

	return client.limiter.Allow()
}

// cleanupLocked drops buckets not seen since threshold. Caller holds mu.
func (rl *RateLimiter) cleanupLocked(threshold time.Time) {
	for ip, client := range rl.perIP {
		if client.lastSeen.Before(threshold) {
			delete(rl.perIP, ip)
		}
	}
}

// RateLimit middleware limits requests per IP address.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !rl.allow(ip) {
				rl.logger.Warn().
					Str("ip", ip).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				if rl.onDrop != nil {
					rl.onDrop()
				}
				response.RateLimited(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller's IP, trusting the first X-Forwarded-For
// entry when present.
func clientIP(r *http.Request) string {
	if forwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
