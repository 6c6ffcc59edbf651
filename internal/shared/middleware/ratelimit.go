package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quickai/server/internal/port/outbound"
	sharederrors "github.com/quickai/server/internal/shared/errors"
	"github.com/quickai/server/internal/shared/response"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"
)

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc generates the rate limit key. Default is the authenticated
	// user, falling back to client IP.
	KeyFunc func(*gin.Context) string
}

// DefaultRateLimitConfig returns the default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   20,
		Window:  time.Minute,
		KeyFunc: userOrIPKey,
	}
}

func userOrIPKey(c *gin.Context) string {
	if userID := GetUserID(c); userID != "" {
		return "ratelimit:user:" + userID
	}
	return "ratelimit:ip:" + c.ClientIP()
}

// RateLimit returns a middleware that limits requests using the given
// limiter. A nil limiter disables limiting. Limiter failures let the
// request through.
func RateLimit(limiter outbound.RateLimiterPort, cfg RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = userOrIPKey
	}

	return func(c *gin.Context) {
		if limiter == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key, cfg.Limit, cfg.Window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		remaining, err := limiter.GetRemaining(ctx, key, cfg.Limit, cfg.Window)
		if err == nil {
			c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		}
		c.Header(RateLimitLimit, strconv.Itoa(cfg.Limit))

		if !allowed {
			c.Header(RetryAfter, strconv.Itoa(int(cfg.Window.Seconds())))
			response.FromAppError(c, sharederrors.RateLimited("Too many requests. Please slow down."))
			return
		}

		c.Next()
	}
}
