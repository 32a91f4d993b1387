// Favorite endpoints let a user mark and unmark their own songs and pull
// the marked set back as one list. The list shares the media DTO and the
// presigned-URL treatment with the regular song listing.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-vault/internal/middleware"
	"github.com/iliyamo/media-vault/internal/repository"
)

// Favorite handles POST /songs/:id/favorite. Only the caller's own songs
// can be marked: unknown ids yield 404, foreign ones 403. Marking twice
// is harmless.
func (h *MediaHandler) Favorite(c echo.Context) error {
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

	if err := h.Favorites.Add(ctx, uid, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "favorite failed"})
		}
	}
	middleware.BustUser(ctx, h.CacheCfg, h.RDB, uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "Added to favorites"})
}

// Unfavorite handles DELETE /songs/:id/favorite. Unmarking something that
// was never marked still reports success; the state the caller asked for
// already holds.
func (h *MediaHandler) Unfavorite(c echo.Context) error {
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

	if err := h.Favorites.Remove(ctx, uid, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "unfavorite failed"})
	}
	middleware.BustUser(ctx, h.CacheCfg, h.RDB, uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "Removed from favorites"})
}

// ListFavorites handles GET /songs/favorites, most recently marked first.
func (h *MediaHandler) ListFavorites(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Favorites.ListSongs(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, h.toItems(ctx, items))
}
