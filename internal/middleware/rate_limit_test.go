package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRateLimiterIsAllowed(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	ctx := context.Background()

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"}, applog.NullLogger())
	fixed := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "user")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), reset)

	allowed, _, _, err = rl.IsAllowed(ctx, "user")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, remaining, _, err = rl.IsAllowed(ctx, "user")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	allowed, _, _, err = rl.IsAllowed(ctx, "other")
	require.NoError(t, err)
	assert.True(t, allowed)

	rl.now = func() time.Time { return fixed.Add(time.Hour) }
	allowed, _, _, err = rl.IsAllowed(ctx, "user")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiterMiddleware(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewRecipeCreationRateLimiter(client, 1, applog.NullLogger())

	identity := &types.Identity{UserID: uuid.New()}
	r := gin.New()
	r.POST("/recipes", func(c *gin.Context) {
		c.Set(identityKey, identity)
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rr := serve(r, httptest.NewRequest(http.MethodPost, "/recipes", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	rr = serve(r, httptest.NewRequest(http.MethodPost, "/recipes", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate_limited", decodeError(t, rr).Error)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	rl := NewRecipeCreationRateLimiter(client, 1, applog.NullLogger())

	r := gin.New()
	r.POST("/recipes", func(c *gin.Context) {
		c.Set(identityKey, &types.Identity{UserID: uuid.New()})
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rr := serve(r, httptest.NewRequest(http.MethodPost, "/recipes", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
}
