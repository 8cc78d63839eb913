package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	storeDriver  string
	authProvider string
	started      time.Time
}

var healthHandler *HealthHandler

func NewHealthHandler(storeDriver, authProvider string) *HealthHandler {
	return &HealthHandler{
		storeDriver:  storeDriver,
		authProvider: authProvider,
		started:      time.Now(),
	}
}

func SetupHealthHandler(storeDriver, authProvider string) {
	healthHandler = NewHealthHandler(storeDriver, authProvider)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(h.started).Round(time.Second).String(),
		"store":  h.storeDriver,
		"auth":   h.authProvider,
	})
}
