package http

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// StrictLimit is meant for credential endpoints
var StrictLimit = RateLimitConfig{
	RequestsPerWindow: 5,
	Window:            time.Minute,
	Burst:             5,
}

// evictThreshold is the table size at which idle buckets start being dropped
const evictThreshold = 1024

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per route and client IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a limiter, falling back to StrictLimit when cfg allows nothing
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerWindow <= 0 || cfg.Window <= 0 {
		cfg = StrictLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerWindow
	}

	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:    cfg.Burst,
		idleTTL:  cfg.Window * 2,
		now:      time.Now,
	}
}

// reserve returns how long the caller has to wait, zero when allowed
func (l *RateLimiter) reserve(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		if len(l.visitors) >= evictThreshold {
			l.evictIdle(now)
		}
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return 0
	}
	r := v.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return delay
}

// evictIdle drops buckets unused for longer than idleTTL; they would be full again anyway
func (l *RateLimiter) evictIdle(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
}

// Middleware rejects requests over the limit with 429. Each route gets its own
// budget, so refreshing does not spend login attempts.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if wait := l.reserve(c.FullPath() + " " + c.ClientIP()); wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			abortWithMessage(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
