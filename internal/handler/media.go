// This file implements the parameterized media resource service. Videos
// and songs share one handler, one repository and one table; the kind is
// bound at route registration. Creation differs per kind (videos arrive
// as JSON pointing at external content, songs as multipart uploads that
// go to object storage first), while listing and deletion are shared.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/media-vault/internal/config"
	"github.com/iliyamo/media-vault/internal/middleware"
	"github.com/iliyamo/media-vault/internal/model"
	"github.com/iliyamo/media-vault/internal/queue"
	"github.com/iliyamo/media-vault/internal/repository"
	"github.com/iliyamo/media-vault/internal/storage"
)

// MediaHandler bundles dependencies for the media endpoints. PublishEvent
// is a field so tests can capture events without a broker; production
// wiring points it at the queue publisher.
type MediaHandler struct {
	Cfg          config.Config
	CacheCfg     config.CacheConfig
	Media        *repository.MediaRepo
	Favorites    *repository.FavoriteRepo
	Store        storage.ObjectStore
	RDB          *redis.Client
	PublishEvent func(ctx context.Context, ev queue.MediaUploadedEvent) error
}

func NewMediaHandler(cfg config.Config, cacheCfg config.CacheConfig, media *repository.MediaRepo,
	favorites *repository.FavoriteRepo, store storage.ObjectStore, rdb *redis.Client,
	publish func(ctx context.Context, ev queue.MediaUploadedEvent) error) *MediaHandler {
	if media == nil || favorites == nil {
		panic("nil repository passed to NewMediaHandler")
	}
	return &MediaHandler{
		Cfg:          cfg,
		CacheCfg:     cacheCfg,
		Media:        media,
		Favorites:    favorites,
		Store:        store,
		RDB:          rdb,
		PublishEvent: publish,
	}
}

// ----- DTOs -----

type createVideoReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

type mediaItem struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// List returns the caller's media of one kind, newest first. Songs get a
// fresh presigned playback URL; when presigning fails the stored object
// URL is returned instead of failing the whole list.
func (h *MediaHandler) List(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		items, err := h.Media.ListByOwner(ctx, uid, kind)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
		}
		return c.JSON(http.StatusOK, h.toItems(ctx, items))
	}
}

// toItems maps rows to response DTOs, swapping stored object URLs for
// fresh presigned ones where a storage key is present.
func (h *MediaHandler) toItems(ctx context.Context, items []*model.Media) []mediaItem {
	out := make([]mediaItem, 0, len(items))
	for _, m := range items {
		url := m.URL
		if m.StorageKey != "" && h.Store != nil {
			if signed, perr := h.Store.PresignGet(ctx, m.StorageKey); perr == nil {
				url = signed
			} else {
				log.Printf("media: presign %s failed: %v", m.StorageKey, perr)
			}
		}
		out = append(out, mediaItem{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Artist:      m.Artist,
			URL:         url,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}

// CreateVideo handles POST /videos. The binary already lives elsewhere;
// only the metadata row is written.
func (h *MediaHandler) CreateVideo(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req createVideoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.Title == "" || req.VideoURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title and video_url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Media{
		OwnerID:     uid,
		Kind:        model.KindVideo,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		URL:         req.VideoURL,
	}
	if err := h.Media.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create failed"})
	}

	h.afterCreate(ctx, m)
	return c.JSON(http.StatusOK, echo.Map{"message": "Uploaded"})
}

// CreateSong handles POST /songs. The multipart form carries `title`, an
// optional `artist` and the binary `song` file. The bytes are pushed to
// object storage first; the row persists the returned URL plus the
// storage key for later cleanup.
func (h *MediaHandler) CreateSong(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	title := strings.TrimSpace(c.FormValue("title"))
	artist := strings.TrimSpace(c.FormValue("artist"))
	fh, err := c.FormFile("song")
	if err != nil || title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title and song file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid song file"})
	}
	defer src.Close()

	if h.Store == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "storage unavailable"})
	}

	// Uploads get a longer budget than plain DB round-trips.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := storage.SongKey(fh.Filename)
	url, err := h.Store.Put(ctx, key, src, contentType)
	if err != nil {
		log.Printf("media: upload %s failed: %v", key, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}

	m := &model.Media{
		OwnerID:    uid,
		Kind:       model.KindSong,
		Title:      title,
		Artist:     artist,
		URL:        url,
		StorageKey: key,
	}
	if err := h.Media.Create(ctx, m); err != nil {
		// Known gap: the uploaded object is orphaned when the insert
		// fails; there is no compensating delete on this path.
		log.Printf("media: insert after upload failed (key=%s): %v", key, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create failed"})
	}

	h.afterCreate(ctx, m)
	return c.JSON(http.StatusOK, echo.Map{"message": "Uploaded"})
}

// Delete removes one owned media item. Unknown ids yield 404 and foreign
// ids 403 — the silent no-op of the original system was deliberately not
// kept. For uploaded binaries the storage object is removed best-effort
// after the row is gone.
func (h *MediaHandler) Delete(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		deleted, err := h.Media.DeleteByIDAndOwner(ctx, id, uid, kind)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"message": "Not found"})
			case errors.Is(err, repository.ErrForbidden):
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete failed"})
			}
		}

		if deleted.StorageKey != "" && h.Store != nil {
			if derr := h.Store.Delete(ctx, deleted.StorageKey); derr != nil {
				log.Printf("media: delete object %s failed: %v", deleted.StorageKey, derr)
			}
		}
		middleware.BustUser(ctx, h.CacheCfg, h.RDB, uid)
		return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
	}
}

// afterCreate busts the owner's cached lists and publishes the uploaded
// event. Event failures are logged inside the publisher and ignored here;
// the request already succeeded.
func (h *MediaHandler) afterCreate(ctx context.Context, m *model.Media) {
	middleware.BustUser(ctx, h.CacheCfg, h.RDB, m.OwnerID)
	if h.PublishEvent != nil {
		_ = h.PublishEvent(ctx, queue.MediaUploadedEvent{
			MediaID:    m.ID,
			OwnerID:    m.OwnerID,
			Kind:       m.Kind,
			Title:      m.Title,
			UploadedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
