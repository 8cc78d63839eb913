package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	// Listing moderation
	admin.GET("/listings", adminHandler.ListListings)
	admin.GET("/listings/pending", adminHandler.PendingListings)
	admin.POST("/listings/:id/approve", adminHandler.ApproveListing)
	admin.POST("/listings/:id/reject", adminHandler.RejectListing)
	admin.PUT("/listings/:id", adminHandler.UpdateListing)
	admin.DELETE("/listings/:id", adminHandler.DeleteListing)

	// Deposit and withdrawal review
	admin.GET("/deposits/pending", adminHandler.PendingDeposits)
	admin.POST("/deposits/:id/approve", adminHandler.ApproveDeposit)
	admin.POST("/deposits/:id/reject", adminHandler.RejectDeposit)
	admin.GET("/withdrawals/pending", adminHandler.PendingWithdrawals)
	admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
	admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
	admin.GET("/wallet/statistics", adminHandler.WalletStatistics)
}
