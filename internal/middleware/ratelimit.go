package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/response"
)

// RateLimiter limits requests per client IP. With Redis it counts fixed
// windows shared by every instance; without Redis it falls back to a
// per-process token bucket. Redis errors fail open.
type RateLimiter struct {
	rdb      *redis.Client
	log      zerolog.Logger
	rate     int           // Requests per interval
	interval time.Duration // Window length
	now      func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter allowing rate requests per interval.
// rdb may be nil.
func NewRateLimiter(rdb *redis.Client, rate int, interval time.Duration, log zerolog.Logger) *RateLimiter {
	if interval < time.Second {
		interval = time.Second
	}
	return &RateLimiter{
		rdb:      rdb,
		log:      log.With().Str("component", "rate_limiter").Logger(),
		rate:     rate,
		interval: interval,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// A non-positive rate disables limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}

		var allowed bool
		if rl.rdb != nil {
			allowed = rl.allowRedis(c.Request.Context(), c.ClientIP())
		} else {
			allowed = rl.allowLocal(c.ClientIP())
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.interval.Seconds())))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allowRedis(ctx context.Context, ip string) bool {
	window := rl.now().Unix() / int64(rl.interval.Seconds())
	key := config.CacheKey.AuthRateLimitKey(ip, window)

	var incr *redis.IntCmd
	_, err := rl.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.interval)
		return nil
	})
	if err != nil {
		rl.log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
		return true
	}
	return incr.Val() <= int64(rl.rate)
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{tokens: rl.rate, lastSeen: now}
		rl.visitors[ip] = v
	}

	// Refill tokens based on elapsed time.
	refill := int(now.Sub(v.lastSeen)/rl.interval) * rl.rate
	if refill > 0 {
		v.tokens += refill
		if v.tokens > rl.rate {
			v.tokens = rl.rate
		}
		v.lastSeen = now
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	rl.sweepLocked(now)
	return true
}

// sweepLocked drops visitors idle for three windows.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if len(rl.visitors) < 1024 {
		return
	}
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > 3*rl.interval {
			delete(rl.visitors, ip)
		}
	}
}
