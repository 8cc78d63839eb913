package handler

import (
	ws "valomarket/internal/infrastructure/websocket"
	"valomarket/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	listingHandler   *ListingHandler
	walletHandler    *WalletHandler
	adminHandler     *AdminHandler
	chatHandler      *ChatHandler
	websocketHandler *WebSocketHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	ledgerUseCase *usecase.LedgerUseCase,
	chatUseCase *usecase.ChatUseCase,
	wsManager *ws.Manager,
	allowedOrigins []string,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase, userUseCase)
	walletHandler = NewWalletHandler(ledgerUseCase)
	adminHandler = NewAdminHandler(listingUseCase, ledgerUseCase, userUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	websocketHandler = NewWebSocketHandler(wsManager, userUseCase, allowedOrigins)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetWalletHandler() *WalletHandler {
	return walletHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}
