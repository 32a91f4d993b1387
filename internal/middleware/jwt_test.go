package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/media-vault/internal/utils"
)

const jwtTestSecret = "mw-secret"

func doAuthed(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	called := false
	h := JWTAuth(jwtTestSecret)(func(c echo.Context) error {
		called = true
		uid, ok := c.Get("user_id").(uint64)
		require.True(t, ok, "user_id must be a uint64 in context")
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid})
	})

	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec, called
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(jwtTestSecret, 42, 60)
	require.NoError(t, err)

	rec, called := doAuthed(t, "Bearer "+tok.Token)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, called := doAuthed(t, "")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsNonBearer(t *testing.T) {
	rec, called := doAuthed(t, "Basic abc123")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", 42, 60)
	require.NoError(t, err)

	rec, called := doAuthed(t, "Bearer "+tok.Token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(jwtTestSecret, 42, -5)
	require.NoError(t, err)

	rec, called := doAuthed(t, "Bearer "+tok.Token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
