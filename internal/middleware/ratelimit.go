package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/forgo/equimind/api/internal/model"
)

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Rate    int           // tokens refilled per Window (default 100)
	Window  time.Duration // refill period (default 1 minute)
	Burst   int           // extra capacity above Rate (default 20)
	IdleTTL time.Duration // buckets untouched this long are dropped (default 2 windows)
	Exempt  []string      // exact paths that bypass the limiter (default /health)
	Now     func() time.Time
}

// RateLimiter is a token bucket per key. A bucket holds at most Rate+Burst
// tokens and refills continuously at Rate per Window.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      int
	capacity  float64
	perToken  time.Duration
	idleTTL   time.Duration
	exempt    map[string]bool
	now       func() time.Time
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst < 0 {
		cfg.Burst = 0
	} else if cfg.Burst == 0 {
		cfg.Burst = 20
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * cfg.Window
	}
	if cfg.Exempt == nil {
		cfg.Exempt = []string{"/health"}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	exempt := make(map[string]bool, len(cfg.Exempt))
	for _, p := range cfg.Exempt {
		exempt[p] = true
	}

	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		rate:      cfg.Rate,
		capacity:  float64(cfg.Rate + cfg.Burst),
		perToken:  cfg.Window / time.Duration(cfg.Rate),
		idleTTL:   cfg.IdleTTL,
		exempt:    exempt,
		now:       cfg.Now,
		lastSweep: cfg.Now(),
	}
}

// Limit is the number of requests a key may make per window
func (rl *RateLimiter) Limit() int { return rl.rate }

// Allow takes one token from key's bucket. retryAfter is zero when allowed,
// otherwise the wait until the next token.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, seen: now}
		rl.buckets[key] = b
	} else {
		elapsed := now.Sub(b.seen)
		if elapsed > 0 {
			b.tokens = math.Min(rl.capacity, b.tokens+float64(elapsed)/float64(rl.perToken))
		}
		b.seen = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	wait := time.Duration((1 - b.tokens) * float64(rl.perToken))
	return false, 0, wait
}

// sweep drops idle buckets at most once per idle TTL. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	for key, b := range rl.buckets {
		if now.Sub(b.seen) >= rl.idleTTL {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// size reports the number of live buckets
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// RateLimit returns a middleware that applies rate limiting per client IP.
// Exempt paths pass through without headers.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, wait := limiter.Allow(ClientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
