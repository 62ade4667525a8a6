package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/iliyamo/junk-pickup/internal/config"
)

// localBuckets is the per-process fallback used when Redis is not
// reachable.  Limits then apply per instance instead of cluster-wide.
type localBuckets struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	visitors  map[string]*visitor
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalBuckets(cfg config.RateLimitConfig) *localBuckets {
	return &localBuckets{
		limit:    rate.Limit(float64(cfg.RefillTokens) / cfg.RefillInterval.Seconds()),
		burst:    cfg.Capacity,
		idle:     cfg.TTL,
		visitors: make(map[string]*visitor),
	}
}

func (b *localBuckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.Sub(b.lastSweep) > b.idle {
		for k, v := range b.visitors {
			if now.Sub(v.lastSeen) > b.idle {
				delete(b.visitors, k)
			}
		}
		b.lastSweep = now
	}
	v, ok := b.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// NewLocalTokenBucket limits requests per key in memory.
func NewLocalTokenBucket(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passthrough
	}
	buckets := newLocalBuckets(cfg)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			lim := buckets.get(rateKey(cfg, c), now)
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			r := lim.ReserveN(now, 1)
			if delay := r.DelayFrom(now); delay > 0 {
				r.CancelAt(now)
				secs := retryAfterSeconds(delay.Milliseconds())
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "Too many requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
