package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	e.POST("/v1/auth/register", authHandler.Register, middleware.AuthRateLimit())
	e.POST("/v1/auth/login", authHandler.Login, middleware.AuthRateLimit())

	// Protected routes
	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("/session", authHandler.Session)
}
