package handler

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *ChatHandler) bindMessage(c echo.Context) (string, error) {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return "", errors.BadRequest("Invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return "", err
	}
	return req.Message, nil
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.Messages(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	text, err := h.bindMessage(c)
	if err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.SendUserMessage(c.Request().Context(), middleware.UID(c), text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, msg)
}

func (h *ChatHandler) Unread(c echo.Context) error {
	count, err := h.chatUseCase.UnreadForUser(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"unread": count,
	})
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	n, err := h.chatUseCase.MarkReadByUser(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"marked": n,
	})
}

func (h *ChatHandler) Conversations(c echo.Context) error {
	conversations, err := h.chatUseCase.Conversations(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ChatHandler) GetUserMessages(c echo.Context) error {
	messages, err := h.chatUseCase.Messages(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) ReplyToUser(c echo.Context) error {
	text, err := h.bindMessage(c)
	if err != nil {
		return response.Error(c, err)
	}

	msg, err := h.chatUseCase.SendAdminMessage(c.Request().Context(), middleware.UID(c), c.Param("userId"), text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, msg)
}

func (h *ChatHandler) MarkReadByAdmin(c echo.Context) error {
	n, err := h.chatUseCase.MarkReadByAdmin(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"marked": n,
	})
}
