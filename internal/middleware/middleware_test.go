package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/media-vault/internal/config"
)

// Without a Redis client both middlewares must be transparent so the
// service keeps working when Redis is down.

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}
	h := RateLimit(cfg, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestListCachePassThroughWithoutRedis(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}
	calls := 0
	h := ListCache(cfg, nil)(func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, []string{})
	})

	e := echo.New()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/videos", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", uint64(1))
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls, "nil client must never serve from cache")
}

func TestCacheKeyIsPerUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/videos")

	k1 := cacheKey("cache", 1, c)
	k2 := cacheKey("cache", 2, c)
	assert.NotEqual(t, k1, k2, "two users must never share a cache entry")
}
