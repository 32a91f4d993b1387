package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/media-vault/internal/config"
	"github.com/iliyamo/media-vault/internal/database"
	"github.com/iliyamo/media-vault/internal/handler"
	"github.com/iliyamo/media-vault/internal/queue"
	"github.com/iliyamo/media-vault/internal/repository"
	"github.com/iliyamo/media-vault/internal/router"
	queue_publisher "github.com/iliyamo/media-vault/internal/service"
	"github.com/iliyamo/media-vault/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	store, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		// Video routes keep working without object storage; song uploads
		// will report 500 until it is configured.
		log.Printf("object storage unavailable: %v", err)
		store = nil
	}

	users := repository.NewUserRepo(db)
	media := repository.NewMediaRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	var objStore storage.ObjectStore
	if store != nil {
		objStore = store
	}
	mediaHandler := handler.NewMediaHandler(cfg, cacheCfg, media, favorites, objStore, rdb,
		queue_publisher.PublishMediaUploaded)

	// Background consumer writes the upload audit log; it reconnects on
	// broker failure and never stops the server.
	go func() {
		if err := queue.StartMediaConsumer(); err != nil {
			log.Printf("media consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.CORS())
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, rlCfg, rdb, cfg.JWTSecret)
	router.RegisterMedia(e, mediaHandler, cacheCfg, rdb, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
