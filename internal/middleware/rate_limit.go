package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the default number of requests per minute per client
	DefaultRateLimit = 300
	// DefaultBurstSize is the default burst size
	DefaultBurstSize = 50

	sweepInterval = 5 * time.Minute
	idleTTL       = 10 * time.Minute
)

// unlimitedPaths are never rate limited
var unlimitedPaths = map[string]bool{
	"/health": true,
}

// RateLimiter holds one token bucket per client IP
type RateLimiter struct {
	perMinute int
	every     rate.Limit
	burst     int

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter with the default limits
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter allowing requestsPerMinute
// with bursts of up to burstSize. Call Stop to release it.
func NewRateLimiterWithConfig(requestsPerMinute int, burstSize int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: requestsPerMinute,
		every:     rate.Limit(float64(requestsPerMinute) / 60),
		burst:     burstSize,
		buckets:   make(map[string]*bucket),
		stop:      make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (r *RateLimiter) bucketFor(client string, now time.Time) *bucket {
	b, ok := r.buckets[client]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.every, r.burst)}
		r.buckets[client] = b
	}
	b.lastSeen = now
	return b
}

// Allow takes a token for client
func (r *RateLimiter) Allow(client string) bool {
	allowed, _, _ := r.take(client)
	return allowed
}

// take takes a token and reports the tokens left and, when refused, how long
// until the next one
func (r *RateLimiter) take(client string) (bool, int, time.Duration) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	limiter := r.bucketFor(client, now).limiter
	if limiter.AllowN(now, 1) {
		return true, int(math.Max(0, limiter.TokensAt(now))), 0
	}

	wait := time.Second
	if r.every > 0 {
		missing := 1 - limiter.TokensAt(now)
		wait = time.Duration(missing / float64(r.every) * float64(time.Second))
	}
	return false, 0, wait
}

// sweep drops buckets of clients that went quiet
func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.mu.Lock()
			for client, b := range r.buckets {
				if now.Sub(b.lastSeen) > idleTTL {
					delete(r.buckets, client)
				}
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}

// Stop ends the background sweep
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// RateLimitMiddleware limits requests per client IP and answers 429 with
// problem details once the bucket is empty
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	limit := strconv.Itoa(rl.perMinute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if unlimitedPaths[c.Path()] {
				return next(c)
			}

			client := c.RealIP()
			allowed, remaining, wait := rl.take(client)

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", limit)
			header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if allowed {
				return next(c)
			}

			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			header.Set("Retry-After", strconv.Itoa(retryAfter))

			log.Warn().
				Str("client", client).
				Str("path", c.Request().URL.Path).
				Int("retry_after", retryAfter).
				Msg("Rate limit exceeded")

			return tooManyRequestsError(c, fmt.Sprintf("Muitas requisições. Tente novamente em %d segundos.", retryAfter))
		}
	}
}
