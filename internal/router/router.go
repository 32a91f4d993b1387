package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/media-vault/internal/config"
	"github.com/iliyamo/media-vault/internal/handler"
	"github.com/iliyamo/media-vault/internal/middleware"
	"github.com/iliyamo/media-vault/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
}

// RegisterAuth registers the authentication routes. Signup and login are
// unauthenticated (but rate limited); /auth/me requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string) {
	g := e.Group("/auth")
	g.Use(middleware.RateLimit(rlCfg, rdb))
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterMedia registers the JWT-protected media routes. Both kinds go
// through the same parameterized handler; list responses are cached per
// user. The cache middleware runs after JWTAuth so the user id is in
// context when the key is built.
func RegisterMedia(e *echo.Echo, m *handler.MediaHandler, cacheCfg config.CacheConfig, rdb *redis.Client, jwtSecret string) {
	auth := e.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.ListCache(cacheCfg, rdb))

	auth.GET("/videos", m.List(model.KindVideo))
	auth.POST("/videos", m.CreateVideo)
	auth.DELETE("/videos/:id", m.Delete(model.KindVideo))

	auth.GET("/songs", m.List(model.KindSong))
	auth.POST("/songs", m.CreateSong)
	auth.DELETE("/songs/:id", m.Delete(model.KindSong))

	// Static /songs/favorites wins over the :id param route in Echo.
	auth.GET("/songs/favorites", m.ListFavorites)
	auth.POST("/songs/:id/favorite", m.Favorite)
	auth.DELETE("/songs/:id/favorite", m.Unfavorite)
}
