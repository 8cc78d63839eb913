package router

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/handler"
	"valomarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	chatHandler := handler.GetChatHandler()

	chat := e.Group("/v1/chat")
	chat.Use(authMiddleware.Authenticate)

	chat.GET("/messages", chatHandler.GetMessages)
	chat.POST("/messages", chatHandler.SendMessage)
	chat.GET("/unread", chatHandler.Unread)
	chat.POST("/read", chatHandler.MarkRead)

	admin := e.Group("/v1/admin/chats")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", chatHandler.Conversations)
	admin.GET("/:userId/messages", chatHandler.GetUserMessages)
	admin.POST("/:userId/messages", chatHandler.ReplyToUser)
	admin.POST("/:userId/read", chatHandler.MarkReadByAdmin)
}
