package middleware

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

const ContextIsAdmin = "is_admin"

type AdminMiddleware struct {
	users *usecase.UserUseCase
}

func NewAdminMiddleware(users *usecase.UserUseCase) *AdminMiddleware {
	return &AdminMiddleware{
		users: users,
	}
}

// AdminOnly checks the role stored on the profile. Role claims carried in
// the token are ignored.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := UID(c)
		if uid == "" {
			return errors.Unauthorized("Authentication required", nil)
		}

		isAdmin, err := m.users.IsAdmin(c.Request().Context(), uid)
		if err != nil {
			return errors.Wrap(err, "Failed to verify admin privileges")
		}
		if !isAdmin {
			logger.Warn("Non-admin %s attempted %s %s", uid, c.Request().Method, c.Path())
			return errors.Forbidden("Admin privileges required", nil)
		}

		c.Set(ContextIsAdmin, true)
		return next(c)
	}
}

// IsAdmin reports whether AdminOnly admitted the request.
func IsAdmin(c echo.Context) bool {
	ok, _ := c.Get(ContextIsAdmin).(bool)
	return ok
}
