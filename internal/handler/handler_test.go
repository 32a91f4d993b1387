package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/media-vault/internal/config"
	"github.com/iliyamo/media-vault/internal/handler"
	"github.com/iliyamo/media-vault/internal/queue"
	"github.com/iliyamo/media-vault/internal/repository"
	"github.com/iliyamo/media-vault/internal/router"
	"github.com/iliyamo/media-vault/internal/storage"
)

const testJWTSecret = "handler-test-secret"

// fakeStore is an in-memory ObjectStore so handler tests never touch S3.
type fakeStore struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = b
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key + "?sig=ok", nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

// newTestServer wires the full route table against an in-memory SQLite
// database, a fake object store and a captured event publisher.
func newTestServer(t *testing.T, store storage.ObjectStore) (*echo.Echo, *[]queue.MediaUploadedEvent) {
	t.Helper()
	return newTestServerWithRedis(t, store, nil)
}

// newTestServerWithRedis is the same wiring with a live Redis client, so
// the caching path can be exercised end to end. A nil client disables it.
func newTestServerWithRedis(t *testing.T, store storage.ObjectStore, rdb *redis.Client) (*echo.Echo, *[]queue.MediaUploadedEvent) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range []string{
		`CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE media_items (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id    INTEGER NOT NULL REFERENCES users(id),
			kind        TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT,
			artist      TEXT,
			url         TEXT NOT NULL,
			storage_key TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE favorites (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			media_id   INTEGER NOT NULL REFERENCES media_items(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, media_id)
		)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	cfg := config.Config{
		JWTSecret:    testJWTSecret,
		AccessTTLMin: 120,
		BcryptCost:   bcrypt.MinCost,
	}

	events := &[]queue.MediaUploadedEvent{}
	publish := func(_ context.Context, ev queue.MediaUploadedEvent) error {
		*events = append(*events, ev)
		return nil
	}

	cacheCfg := config.CacheConfig{}
	if rdb != nil {
		cacheCfg = config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}
	}

	users := repository.NewUserRepo(db)
	media := repository.NewMediaRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	authH := handler.NewAuthHandler(cfg, users)
	mediaH := handler.NewMediaHandler(cfg, cacheCfg, media, favorites, store, rdb, publish)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, config.RateLimitConfig{}, nil, cfg.JWTSecret)
	router.RegisterMedia(e, mediaH, cacheCfg, rdb, cfg.JWTSecret)
	return e, events
}

// doJSON issues a request with an optional JSON body and bearer token.
func doJSON(e *echo.Echo, method, path string, body any, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// signupAndLogin registers a user and returns a fresh access token.
func signupAndLogin(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/auth/signup",
		map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
