package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
)

// SetupWalletRouter registers the coin ledger routes. Requests that move
// coins are additionally rate limited per user.
func SetupWalletRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	walletHandler := handler.GetWalletHandler()

	e.GET("/v1/pricing", walletHandler.Pricing)

	e.POST("/v1/listings/:id/purchase", walletHandler.Purchase, authMiddleware.Authenticate, middleware.PaymentRateLimit())
	e.GET("/v1/purchases", walletHandler.ListPurchases, authMiddleware.Authenticate)
	e.POST("/v1/membership", walletHandler.BuyMembership, authMiddleware.Authenticate, middleware.PaymentRateLimit())

	wallet := e.Group("/v1/wallet")
	wallet.Use(authMiddleware.Authenticate)

	wallet.GET("", walletHandler.GetWallet)
	wallet.GET("/ledger", walletHandler.GetLedger)

	wallet.POST("/deposits", walletHandler.RequestDeposit, middleware.PaymentRateLimit())
	wallet.GET("/deposits", walletHandler.ListDeposits)
	wallet.POST("/deposits/slip", walletHandler.UploadSlip, middleware.PaymentRateLimit())

	wallet.POST("/withdrawals", walletHandler.RequestWithdrawal, middleware.PaymentRateLimit())
	wallet.GET("/withdrawals", walletHandler.ListWithdrawals)
}
