package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
)

// SetupWebSocketRouter sets up WebSocket routes. Browsers pass the token as
// a query parameter since they cannot set headers on the upgrade request.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()

	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
