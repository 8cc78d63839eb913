package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"valomarket/internal/domain/entity"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
)

const (
	ContextUID      = "uid"
	ContextIdentity = "identity"
)

type AuthMiddleware struct {
	verifier usecase.TokenVerifier
}

func NewAuthMiddleware(verifier usecase.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter used by browser websocket clients.
func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, true
		}
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return errors.Unauthorized("Authorization header is required", nil)
		}

		ident, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return errors.Unauthorized("Invalid or expired token", err)
		}

		c.Set(ContextUID, ident.UID)
		c.Set(ContextIdentity, ident)
		return next(c)
	}
}

// OptionalAuthenticate sets the caller identity when a valid token is present
// and otherwise continues anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		ident, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return next(c)
		}

		c.Set(ContextUID, ident.UID)
		c.Set(ContextIdentity, ident)
		return next(c)
	}
}

// UID returns the authenticated user id or "".
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextUID).(string)
	return uid
}

func Identity(c echo.Context) *entity.Identity {
	ident, _ := c.Get(ContextIdentity).(*entity.Identity)
	return ident
}
