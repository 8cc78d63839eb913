package handler

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
	"valomarket/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,username"`
}

type loginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		logger.Debug("Registration failed for %s: %v", req.Email, err)
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

// Session resolves the profile behind a verified token, creating it on the
// first sign-in through an external provider.
func (h *AuthHandler) Session(c echo.Context) error {
	ident := middleware.Identity(c)
	if ident == nil {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	user, err := h.authUseCase.Session(c.Request().Context(), ident)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
