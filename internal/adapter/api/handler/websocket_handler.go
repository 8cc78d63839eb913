package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	ws "valomarket/internal/infrastructure/websocket"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
	"valomarket/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	userUseCase *usecase.UserUseCase
	upgrader    gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager, userUseCase *usecase.UserUseCase, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		userUseCase: userUseCase,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker admits requests without an Origin header (non-browser
// clients) and browsers whose origin is configured.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// HandleWebSocket upgrades an authenticated request into a realtime
// connection for chat events.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := middleware.UID(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	isAdmin, err := h.userUseCase.IsAdmin(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the failure response.
		logger.Warn("WebSocket upgrade failed for %s: %v", userID, err)
		return nil
	}

	client := ws.NewClient(userID, isAdmin, conn)
	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
