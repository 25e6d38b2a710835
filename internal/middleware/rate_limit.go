package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed-window counter per user kept in Redis.
type RateLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewRateLimiter(client redis.Cmdable, config RateLimitConfig, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		config: config,
		now:    time.Now,
		logger: logger,
	}
}

// NewRecipeCreationRateLimiter limits recipe creation to limit per hour.
func NewRecipeCreationRateLimiter(client redis.Cmdable, limit int, logger *slog.Logger) *RateLimiter {
	return NewRateLimiter(client, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	}, logger)
}

// Middleware enforces the limit for the authenticated caller. It must run
// after RequireAuth. Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), identity.UserID.String())
		if err != nil {
			rl.logger.WarnContext(c.Request.Context(), "rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:     "rate_limited",
				Message:   fmt.Sprintf("limit of %d requests per %v exceeded", rl.config.Limit, rl.config.Window),
				RequestID: RequestIDFrom(c),
			})
			return
		}

		c.Next()
	}
}

// IsAllowed counts one request for key and reports whether it is within
// the limit, how many remain and when the window resets.
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := rl.key(key, windowStart)

	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := max(rl.config.Limit-count, 0)
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

func (rl *RateLimiter) key(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())
}
