package middlewares

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mbolis/survey-intake/httpx"
	"github.com/mbolis/survey-intake/log"
)

const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	*rate.Limiter
	lastActive time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	limit     rate.Limit
	burst     int
	ipHeader  string
	lastSweep time.Time
}

// MaxBody caps the request body; reading past limit fails the decode.
func MaxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit allows perSecond requests per client IP with the given burst.
// Clients are keyed on the peer address unless trustedHeader names a header
// set by a proxy in front of the service. Clients are told how long to wait
// through the Retry-After header.
func RateLimit(perSecond float64, burst int, trustedHeader string) func(http.Handler) http.Handler {
	rl := &rateLimiter{
		limiters:  make(map[string]*ipLimiter),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		ipHeader:  trustedHeader,
		lastSweep: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := httpx.ClientIP(r, rl.ipHeader)
			reservation := rl.get(ip, time.Now()).Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(delay/time.Second)+1))
				httpx.LogError(w, r, http.StatusTooManyRequests, log.DebugLevel, "ratelimit.exceeded", "too_many_requests", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *rateLimiter) get(ip string, now time.Time) *ipLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		for key, l := range rl.limiters {
			if now.Sub(l.lastActive) > limiterIdleTTL {
				delete(rl.limiters, key)
			}
		}
		rl.lastSweep = now
	}

	l, ok := rl.limiters[ip]
	if !ok {
		l = &ipLimiter{Limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastActive = now
	return l
}
