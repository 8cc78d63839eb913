package handler

import (
	"github.com/labstack/echo/v4"

	"valomarket/internal/adapter/api/middleware"
	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/response"
	"valomarket/pkg/utils"
)

// IdempotencyKeyHeader lets clients retry coin-spending requests safely.
const IdempotencyKeyHeader = "Idempotency-Key"

type WalletHandler struct {
	ledgerUseCase *usecase.LedgerUseCase
}

func NewWalletHandler(ledgerUseCase *usecase.LedgerUseCase) *WalletHandler {
	return &WalletHandler{
		ledgerUseCase: ledgerUseCase,
	}
}

type purchaseRequest struct {
	Insurance int64 `json:"insurance" validate:"gte=0"`
}

type membershipRequest struct {
	Tier string `json:"tier" validate:"required"`
}

type depositRequest struct {
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Method  string `json:"method" validate:"required"`
	SlipURL string `json:"slip_url" validate:"omitempty,max=1024"`
}

type withdrawalRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Method   string `json:"method" validate:"required"`
	Account  string `json:"account" validate:"required,max=100"`
	BankName string `json:"bank_name" validate:"max=100"`
}

func idempotencyKey(c echo.Context) (string, error) {
	key := c.Request().Header.Get(IdempotencyKeyHeader)
	if len(key) > 200 {
		return "", errors.Validation("Idempotency-Key must be at most 200 characters")
	}
	return key, nil
}

func (h *WalletHandler) Pricing(c echo.Context) error {
	return response.Success(c, h.ledgerUseCase.Pricing())
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	wallet, err := h.ledgerUseCase.GetWallet(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, wallet)
}

func (h *WalletHandler) GetLedger(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	entries, total, err := h.ledgerUseCase.ListLedger(c.Request().Context(), middleware.UID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, entries, total, pagination.Page, pagination.PageSize)
}

func (h *WalletHandler) Purchase(c echo.Context) error {
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.ledgerUseCase.Purchase(c.Request().Context(), middleware.UID(c), usecase.PurchaseInput{
		ListingID:      c.Param("id"),
		Insurance:      req.Insurance,
		IdempotencyKey: key,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if result.Replayed {
		return response.Success(c, result)
	}
	return response.Created(c, result)
}

func (h *WalletHandler) ListPurchases(c echo.Context) error {
	purchases, err := h.ledgerUseCase.ListPurchases(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, purchases)
}

func (h *WalletHandler) BuyMembership(c echo.Context) error {
	var req membershipRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.ledgerUseCase.BuyMembership(c.Request().Context(), middleware.UID(c), req.Tier, key)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *WalletHandler) RequestDeposit(c echo.Context) error {
	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	deposit, err := h.ledgerUseCase.RequestDeposit(c.Request().Context(), middleware.UID(c), usecase.DepositInput{
		Amount:  req.Amount,
		Method:  req.Method,
		SlipURL: req.SlipURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, deposit)
}

func (h *WalletHandler) ListDeposits(c echo.Context) error {
	deposits, err := h.ledgerUseCase.ListDeposits(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, deposits)
}

func (h *WalletHandler) UploadSlip(c echo.Context) error {
	uploads, err := formImages(c, "slip", 1)
	if err != nil {
		return response.Error(c, err)
	}

	url, err := h.ledgerUseCase.UploadDepositSlip(c.Request().Context(), middleware.UID(c), uploads[0].File, uploads[0].ContentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"url": url,
	})
}

func (h *WalletHandler) RequestWithdrawal(c echo.Context) error {
	var req withdrawalRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	withdrawal, err := h.ledgerUseCase.RequestWithdrawal(c.Request().Context(), middleware.UID(c), usecase.WithdrawalInput{
		Amount:   req.Amount,
		Method:   req.Method,
		Account:  req.Account,
		BankName: req.BankName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, withdrawal)
}

func (h *WalletHandler) ListWithdrawals(c echo.Context) error {
	withdrawals, err := h.ledgerUseCase.ListWithdrawals(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, withdrawals)
}
