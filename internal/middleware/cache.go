package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/media-vault/internal/config"
)

// bodyCapture tees the response body so a successful JSON payload can be
// stored after the handler runs.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (bc *bodyCapture) WriteHeader(code int) {
	bc.status = code
	bc.ResponseWriter.WriteHeader(code)
}

func (bc *bodyCapture) Write(b []byte) (int, error) {
	bc.buf.Write(b)
	return bc.ResponseWriter.Write(b)
}

// cacheKey builds a per-user key. Lists are ownership-scoped, so the
// authenticated user id must be part of the key or users would see each
// other's cached collections.
func cacheKey(prefix string, userID uint64, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.Method + ":" + c.Path() + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:u%d:%x", prefix, userID, sum[:])
}

// userKeyPattern matches every cached entry belonging to one user.
func userKeyPattern(prefix string, userID uint64) string {
	return fmt.Sprintf("%s:u%d:*", prefix, userID)
}

// ListCache caches 200 responses of GET list endpoints in Redis, keyed by
// user, route and query. It must run after JWTAuth so the user id is in
// context. Non-GET requests and error responses are never cached; a nil
// Redis client turns the middleware into a pass-through.
func ListCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			uid, ok := c.Get("user_id").(uint64)
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, uid, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				c.Response().WriteHeader(http.StatusOK)
				_, werr := c.Response().Write(body)
				return werr
			}

			bc := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = bc
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if bc.status == http.StatusOK {
				// Detached context: the request may be done, the write should still land.
				_ = rdb.SetEx(context.Background(), key, bc.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}

// BustUser drops every cached list for one user. Handlers call this after
// a create or delete so the next list reflects the mutation immediately
// instead of after TTL expiry.
func BustUser(ctx context.Context, cfg config.CacheConfig, rdb *redis.Client, userID uint64) {
	if !cfg.Enabled || rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, userKeyPattern(cfg.Prefix, userID), 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = rdb.Del(ctx, keys...).Err()
	}
}
