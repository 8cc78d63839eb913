package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Public routes
	e.GET("/v1/stats", listingHandler.SiteStats)
	e.GET("/v1/listings", listingHandler.Marketplace)
	e.GET("/v1/listings/:id", listingHandler.GetListing, authMiddleware.OptionalAuthenticate)

	// Protected routes
	e.POST("/v1/listings", listingHandler.CreateListing, authMiddleware.Authenticate)
	e.POST("/v1/listings/images", listingHandler.UploadImages, authMiddleware.Authenticate)
	e.GET("/v1/my-listings", listingHandler.MyListings, authMiddleware.Authenticate)
}
