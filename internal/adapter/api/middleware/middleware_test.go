package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valomarket/internal/adapter/repository/memory"
	"valomarket/internal/domain/entity"
	"valomarket/internal/infrastructure/identity"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/response"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	return e
}

func echoUID(c echo.Context) error {
	return c.String(http.StatusOK, UID(c))
}

func serve(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	provider := identity.NewLocalProvider("secret", time.Hour)
	token, err := provider.IssueToken("u1", "u1@example.com", "u1")
	require.NoError(t, err)

	e := newEcho()
	auth := NewAuthMiddleware(provider)
	e.GET("/private", echoUID, auth.Authenticate)
	e.GET("/public", echoUID, auth.OptionalAuthenticate)

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"bearer header", "/private", "Bearer " + token, http.StatusOK, "u1"},
		{"query token", "/private?token=" + token, "", http.StatusOK, "u1"},
		{"missing", "/private", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/private", "Basic " + token, http.StatusUnauthorized, ""},
		{"bad token", "/private", "Bearer nope", http.StatusUnauthorized, ""},
		{"optional anonymous", "/public", "", http.StatusOK, ""},
		{"optional bad token", "/public", "Bearer nope", http.StatusOK, ""},
		{"optional valid", "/public", "Bearer " + token, http.StatusOK, "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.path, tt.header)
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), errors.CodeUnauthorized)
			}
		})
	}
}

func TestAdminOnlyReadsStoredRole(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := usecase.NewUserUseCase(store, store.Users(), store.Listings(), nil, 0)

	_, _, err := users.CreateProfile(ctx, &entity.Identity{UID: "plain", Email: "p@example.com"}, "plain")
	require.NoError(t, err)
	_, _, err = users.CreateProfile(ctx, &entity.Identity{UID: "boss", Email: "b@example.com"}, "boss")
	require.NoError(t, err)
	require.NoError(t, users.SetRole(ctx, "boss", entity.RoleAdmin))

	provider := identity.NewLocalProvider("secret", time.Hour)
	plainToken, err := provider.IssueToken("plain", "p@example.com", "plain")
	require.NoError(t, err)
	bossToken, err := provider.IssueToken("boss", "b@example.com", "boss")
	require.NoError(t, err)

	e := newEcho()
	admin := NewAdminMiddleware(users)
	e.GET("/admin", func(c echo.Context) error {
		assert.True(t, IsAdmin(c))
		return c.NoContent(http.StatusNoContent)
	}, NewAuthMiddleware(provider).Authenticate, admin.AdminOnly)

	assert.Equal(t, http.StatusForbidden, serve(e, "/admin", "Bearer "+plainToken).Code)
	assert.Equal(t, http.StatusNoContent, serve(e, "/admin", "Bearer "+bossToken).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "/admin", "").Code)
}

func TestRateLimiterBlocksAndRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, _ := rl.take("ip:1")
	assert.True(t, ok)
	ok, _ = rl.take("ip:1")
	assert.True(t, ok)
	ok, reset := rl.take("ip:1")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), reset)

	// Other clients are unaffected.
	ok, _ = rl.take("ip:2")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = rl.take("ip:1")
	assert.True(t, ok)

	now = now.Add(3 * time.Hour)
	assert.Equal(t, 2, rl.Cleanup(2*time.Hour))
	assert.Equal(t, 0, rl.GetVisitorStats()["total_visitors"])
}

func TestRateLimitMiddlewareResponds429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	e := newEcho()
	e.GET("/pay", echoUID, rl.RateLimitMiddleware())

	assert.Equal(t, http.StatusOK, serve(e, "/pay", "").Code)

	rec := serve(e, "/pay", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), errors.CodeTooManyRequests)
}
