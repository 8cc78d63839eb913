package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware, adminMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupWalletRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupChatRouter(e, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, authMiddleware)
}
