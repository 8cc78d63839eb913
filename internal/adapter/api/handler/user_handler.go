package handler

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,username"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetUserProfile(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), middleware.UID(c), usecase.UpdateProfileInput{
		Username: req.Username,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.userUseCase.Dashboard(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, dashboard)
}
