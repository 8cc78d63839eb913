package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/domain/entity"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/response"
	"valomarket/pkg/utils"
)

type AdminHandler struct {
	listingUseCase *usecase.ListingUseCase
	ledgerUseCase  *usecase.LedgerUseCase
	userUseCase    *usecase.UserUseCase
}

func NewAdminHandler(listingUseCase *usecase.ListingUseCase, ledgerUseCase *usecase.LedgerUseCase, userUseCase *usecase.UserUseCase) *AdminHandler {
	return &AdminHandler{
		listingUseCase: listingUseCase,
		ledgerUseCase:  ledgerUseCase,
		userUseCase:    userUseCase,
	}
}

type rejectListingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type reviewRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

type updateListingRequest struct {
	Title         *string         `json:"title" validate:"omitempty,min=1,max=100"`
	Rank          *string         `json:"rank"`
	Skins         *int            `json:"skins" validate:"omitempty,gte=0"`
	Price         *int64          `json:"price" validate:"omitempty,gt=0"`
	FeaturedSkins *string         `json:"featured_skins" validate:"omitempty,max=500"`
	Highlights    *string         `json:"highlights" validate:"omitempty,max=1000"`
	Image         *string         `json:"image"`
	Contact       *contactRequest `json:"contact"`
}

func (h *AdminHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.AdminList(c.Request().Context(), c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) PendingListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.PendingListings(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ApproveListing(c echo.Context) error {
	listing, err := h.listingUseCase.Approve(c.Request().Context(), middleware.UID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *AdminHandler) RejectListing(c echo.Context) error {
	var req rejectListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Reject(c.Request().Context(), middleware.UID(c), c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *AdminHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateListingInput{
		Title:         req.Title,
		Rank:          req.Rank,
		Skins:         req.Skins,
		Price:         req.Price,
		FeaturedSkins: req.FeaturedSkins,
		Highlights:    req.Highlights,
		Image:         req.Image,
	}
	if req.Contact != nil {
		contact := req.Contact.toEntity()
		input.Contact = &contact
	}

	listing, err := h.listingUseCase.AdminUpdate(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *AdminHandler) DeleteListing(c echo.Context) error {
	if err := h.listingUseCase.Delete(c.Request().Context(), middleware.UID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"id": c.Param("id"),
	})
}

func (h *AdminHandler) PendingDeposits(c echo.Context) error {
	deposits, err := h.ledgerUseCase.PendingDeposits(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deposits)
}

func (h *AdminHandler) ApproveDeposit(c echo.Context) error {
	return h.reviewDeposit(c, h.ledgerUseCase.ApproveDeposit)
}

func (h *AdminHandler) RejectDeposit(c echo.Context) error {
	return h.reviewDeposit(c, h.ledgerUseCase.RejectDeposit)
}

func (h *AdminHandler) reviewDeposit(c echo.Context, review func(ctx context.Context, adminID, id, notes string) (*entity.Deposit, error)) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	deposit, err := review(c.Request().Context(), middleware.UID(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deposit)
}

func (h *AdminHandler) PendingWithdrawals(c echo.Context) error {
	withdrawals, err := h.ledgerUseCase.PendingWithdrawals(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, withdrawals)
}

func (h *AdminHandler) ApproveWithdrawal(c echo.Context) error {
	return h.reviewWithdrawal(c, h.ledgerUseCase.ApproveWithdrawal)
}

func (h *AdminHandler) RejectWithdrawal(c echo.Context) error {
	return h.reviewWithdrawal(c, h.ledgerUseCase.RejectWithdrawal)
}

func (h *AdminHandler) reviewWithdrawal(c echo.Context, review func(ctx context.Context, adminID, id, notes string) (*entity.Withdrawal, error)) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	withdrawal, err := review(c.Request().Context(), middleware.UID(c), c.Param("id"), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, withdrawal)
}

func (h *AdminHandler) WalletStatistics(c echo.Context) error {
	stats, err := h.ledgerUseCase.Statistics(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userUseCase.ListUsers(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}
