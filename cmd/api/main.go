package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"valomarket/internal/adapter/api"
	"valomarket/internal/adapter/api/handler"
	apimiddleware "valomarket/internal/adapter/api/middleware"
	"valomarket/internal/adapter/api/router"
	"valomarket/internal/infrastructure/lock"
	"valomarket/internal/infrastructure/pricing"
	"valomarket/internal/infrastructure/ratelimit"
	"valomarket/internal/infrastructure/websocket"
	"valomarket/internal/usecase"
	"valomarket/pkg/config"
	"valomarket/pkg/logger"
	"valomarket/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.Environment); err != nil {
		log.Fatalf("Failed to configure logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := wire(ctx, cfg)
	if err != nil {
		logger.L().Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer deps.Close()

	catalog, err := pricing.Load(cfg.PricingFile)
	if err != nil {
		logger.L().Fatal("Failed to load pricing catalog", zap.String("file", cfg.PricingFile), zap.Error(err))
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine(ctx)
	apimiddleware.StartCleanup(ctx)

	userUseCase := usecase.NewUserUseCase(deps.Transactor, deps.Users, deps.Listings, deps.RoleClaimer, cfg.WelcomeBonusCoins)
	authUseCase := usecase.NewAuthUseCase(deps.Users, deps.Identity, userUseCase)
	listingUseCase := usecase.NewListingUseCase(deps.Transactor, deps.Listings, deps.Users, deps.Storage, rateLimiter)
	ledgerUseCase := usecase.NewLedgerUseCase(
		deps.Transactor,
		deps.Users,
		deps.Deposits,
		deps.Withdrawals,
		deps.Ledger,
		deps.Purchases,
		deps.Storage,
		catalog,
		lock.NewKeyedMutex(),
		cfg.CoinPayoutRate,
	)
	chatUseCase := usecase.NewChatUseCase(deps.Chats, deps.Users, wsManager, rateLimiter)

	handler.Setup(authUseCase, userUseCase, listingUseCase, ledgerUseCase, chatUseCase, wsManager, cfg.CORSOrigins)
	handler.SetupHealthHandler(cfg.StoreDriver, cfg.AuthProvider)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.IdempotencyKeyHeader},
	}))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.RequestTimeout,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/v1/ws"
		},
	}))

	authMiddleware := apimiddleware.NewAuthMiddleware(deps.Verifier)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userUseCase)

	router.Setup(e, authMiddleware, adminMiddleware)

	go func() {
		logger.Info("Starting server on port %s (store=%s, auth=%s)", cfg.ServerPort, cfg.StoreDriver, cfg.AuthProvider)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
