package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/internal/infrastructure/lock"
	"valomarket/internal/infrastructure/pricing"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

const (
	opPurchase   = "purchase"
	opMembership = "membership"
	opDeposit    = "deposit"
	opWithdrawal = "withdrawal"
	opWelcome    = "welcome_bonus"

	walletHistoryLimit = 50
	adminQueueLimit    = 100
)

var operationNamespace = uuid.MustParse("6f1c7a52-4d1e-4c39-9a63-2b5f0e8d7c41")

// operationID is deterministic for a client-supplied key so retries map to
// the same ledger entry. Without a key every call is a new operation.
func operationID(userID, op, key string) string {
	if key == "" {
		return uuid.New().String()
	}
	return uuid.NewSHA1(operationNamespace, []byte(userID+":"+op+":"+key)).String()
}

// LedgerUseCase owns every change to a user's coin balance.
type LedgerUseCase struct {
	transactor     repository.Transactor
	userRepo       repository.UserRepository
	depositRepo    repository.DepositRepository
	withdrawalRepo repository.WithdrawalRepository
	ledgerRepo     repository.LedgerRepository
	purchaseRepo   repository.PurchaseRepository
	storage        FileStorage
	catalog        *pricing.Catalog
	locks          *lock.KeyedMutex
	payoutRate     decimal.Decimal
	now            func() time.Time
}

func NewLedgerUseCase(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	depositRepo repository.DepositRepository,
	withdrawalRepo repository.WithdrawalRepository,
	ledgerRepo repository.LedgerRepository,
	purchaseRepo repository.PurchaseRepository,
	storage FileStorage,
	catalog *pricing.Catalog,
	locks *lock.KeyedMutex,
	payoutRate decimal.Decimal,
) *LedgerUseCase {
	return &LedgerUseCase{
		transactor:     transactor,
		userRepo:       userRepo,
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		ledgerRepo:     ledgerRepo,
		purchaseRepo:   purchaseRepo,
		storage:        storage,
		catalog:        catalog,
		locks:          locks,
		payoutRate:     payoutRate,
		now:            time.Now,
	}
}

type PurchaseInput struct {
	ListingID      string
	Insurance      int64
	IdempotencyKey string
}

type PurchaseResult struct {
	Purchase *entity.Purchase `json:"purchase"`
	Contact  *entity.Contact  `json:"contact"`
	Balance  int64            `json:"balance"`
	Replayed bool             `json:"replayed"`
}

type DepositInput struct {
	Amount  int64
	Method  string
	SlipURL string
}

type WithdrawalInput struct {
	Amount   int64
	Method   string
	Account  string
	BankName string
}

type MembershipResult struct {
	Membership entity.Membership `json:"membership"`
	Balance    int64             `json:"balance"`
	Replayed   bool              `json:"replayed"`
}

type WalletSummary struct {
	Coins            int64             `json:"coins"`
	Membership       entity.Membership `json:"membership"`
	MembershipActive bool              `json:"membership_active"`
}

type WalletStatistics struct {
	PendingDeposits    int64 `json:"pending_deposits"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
	TotalCoins         int64 `json:"total_coins"`
}

func (uc *LedgerUseCase) Pricing() *pricing.Catalog {
	return uc.catalog
}

func (uc *LedgerUseCase) lockUser(ctx context.Context, userID string) (func(), error) {
	unlock, err := uc.locks.Lock(ctx, userID)
	if err != nil {
		return nil, errors.Transient("Timed out waiting for account", err)
	}
	return unlock, nil
}

var errIdempotencyKeyReused = errors.Conflict("Idempotency key was already used for a different request")

// spendable is the balance minus coins held by pending withdrawals.
func spendable(ctx context.Context, tx repository.Tx, user *entity.User) (int64, error) {
	pending, err := tx.PendingWithdrawalTotal(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	return user.Coins - pending, nil
}

func (uc *LedgerUseCase) Purchase(ctx context.Context, buyerID string, input PurchaseInput) (*PurchaseResult, error) {
	option, ok := uc.catalog.InsuranceFor(input.Insurance)
	if !ok {
		return nil, errors.Validation(fmt.Sprintf("Invalid insurance option: %d", input.Insurance))
	}

	opID := operationID(buyerID, opPurchase, input.IdempotencyKey)

	unlock, err := uc.lockUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *PurchaseResult
	err = uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		result = nil

		existing, err := tx.GetPurchase(ctx, opID)
		if err == nil {
			if existing.ListingID != input.ListingID || existing.Insurance != option.Amount {
				return errIdempotencyKeyReused
			}
			return uc.replayPurchase(ctx, tx, existing, &result)
		}
		if !errors.Is(err, errors.CodeNotFound) {
			return err
		}

		buyer, err := tx.GetUser(ctx, buyerID)
		if err != nil {
			return err
		}
		listing, err := tx.GetListing(ctx, input.ListingID)
		if err != nil {
			return err
		}

		if listing.SellerID == buyerID {
			return errors.Validation("You cannot buy your own listing")
		}
		if listing.Status != entity.ListingStatusApproved {
			return errors.Conflict("Listing is not available for purchase")
		}

		seller, err := tx.GetUser(ctx, listing.SellerID)
		if err != nil && !errors.Is(err, errors.CodeNotFound) {
			return err
		}

		total := listing.Price + option.Amount
		available, err := spendable(ctx, tx, buyer)
		if err != nil {
			return err
		}
		if available < total {
			return errors.InsufficientBalance(total, available)
		}

		now := uc.now()
		if err := listing.MarkSold(buyerID, now); err != nil {
			return errors.Conflict("Listing is not available for purchase")
		}

		before := buyer.Coins
		buyer.Coins -= total
		buyer.Stats.TotalPurchases++
		buyer.UpdatedAt = now

		purchase := &entity.Purchase{
			ID:            opID,
			ListingID:     listing.ID,
			ListingTitle:  listing.Title,
			BuyerID:       buyerID,
			SellerID:      listing.SellerID,
			Price:         listing.Price,
			Insurance:     option.Amount,
			InsuranceDays: option.Days,
			Total:         total,
			Status:        entity.PurchaseStatusCompleted,
			CreatedAt:     now,
		}

		entry := &entity.LedgerEntry{
			ID:            opID,
			UserID:        buyerID,
			Type:          entity.LedgerPurchase,
			Amount:        -total,
			BalanceBefore: before,
			BalanceAfter:  buyer.Coins,
			Reference:     listing.ID,
			Description:   fmt.Sprintf("Purchase of %s", listing.Title),
			CreatedAt:     now,
		}

		if err := tx.PutUser(buyer); err != nil {
			return err
		}
		if seller != nil {
			seller.Stats.TotalSales++
			seller.UpdatedAt = now
			if err := tx.PutUser(seller); err != nil {
				return err
			}
		}
		if err := tx.PutListing(listing); err != nil {
			return err
		}
		if err := tx.PutPurchase(purchase); err != nil {
			return err
		}
		if err := tx.PutLedgerEntry(entry); err != nil {
			return err
		}

		result = &PurchaseResult{
			Purchase: purchase,
			Contact:  listing.Contact,
			Balance:  buyer.Coins,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Replayed {
		logger.Info("Replayed purchase %s for user %s", result.Purchase.ID, buyerID)
	} else {
		logger.Info("User %s purchased listing %s for %d coins", buyerID, input.ListingID, result.Purchase.Total)
	}
	return result, nil
}

func (uc *LedgerUseCase) replayPurchase(ctx context.Context, tx repository.Tx, existing *entity.Purchase, result **PurchaseResult) error {
	buyer, err := tx.GetUser(ctx, existing.BuyerID)
	if err != nil {
		return err
	}

	var contact *entity.Contact
	listing, err := tx.GetListing(ctx, existing.ListingID)
	switch {
	case err == nil:
		contact = listing.Contact
	case !errors.Is(err, errors.CodeNotFound):
		return err
	}

	*result = &PurchaseResult{
		Purchase: existing,
		Contact:  contact,
		Balance:  buyer.Coins,
		Replayed: true,
	}
	return nil
}

func (uc *LedgerUseCase) RequestDeposit(ctx context.Context, userID string, input DepositInput) (*entity.Deposit, error) {
	if input.Amount < entity.MinDepositCoins {
		return nil, errors.Validation(fmt.Sprintf("Minimum deposit is %d coins", entity.MinDepositCoins))
	}
	if !entity.ValidPaymentMethod(input.Method) {
		return nil, errors.Validation(fmt.Sprintf("Invalid payment method: %s", input.Method))
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, errors.FromStore("User", err)
	}

	now := uc.now()
	deposit := &entity.Deposit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    input.Amount,
		Method:    input.Method,
		SlipURL:   input.SlipURL,
		Status:    entity.RequestStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.depositRepo.Create(ctx, deposit); err != nil {
		return nil, errors.FromStore("Deposit", err)
	}

	logger.Info("Deposit %s requested by %s: %d coins via %s", deposit.ID, userID, deposit.Amount, deposit.Method)
	return deposit, nil
}

// UploadDepositSlip stores a payment slip image and returns its URL.
func (uc *LedgerUseCase) UploadDepositSlip(ctx context.Context, userID string, file io.Reader, contentType string) (string, error) {
	if !allowedImageType(contentType) {
		return "", errors.Validation("Slip must be a JPEG, PNG or WebP image")
	}

	url, err := uc.storage.UploadFile(ctx, file, contentType, "slips/"+userID, false)
	if err != nil {
		return "", errors.Internal("Failed to upload slip", err)
	}
	return url, nil
}

func (uc *LedgerUseCase) ApproveDeposit(ctx context.Context, adminID, depositID, notes string) (*entity.Deposit, error) {
	current, err := uc.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, errors.FromStore("Deposit", err)
	}

	unlock, err := uc.lockUser(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var approved *entity.Deposit
	err = uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		deposit, err := tx.GetDeposit(ctx, depositID)
		if err != nil {
			return err
		}
		if deposit.Status != entity.RequestStatusPending {
			return errors.Conflict(fmt.Sprintf("Deposit is already %s", deposit.Status))
		}

		user, err := tx.GetUser(ctx, deposit.UserID)
		if err != nil {
			return err
		}

		now := uc.now()
		before := user.Coins
		user.Coins += deposit.Amount
		user.UpdatedAt = now

		deposit.Status = entity.RequestStatusApproved
		deposit.AdminNotes = notes
		deposit.ProcessedBy = adminID
		deposit.ProcessedAt = &now
		deposit.UpdatedAt = now

		entry := &entity.LedgerEntry{
			ID:            operationID(user.ID, opDeposit, deposit.ID),
			UserID:        user.ID,
			Type:          entity.LedgerDeposit,
			Amount:        deposit.Amount,
			BalanceBefore: before,
			BalanceAfter:  user.Coins,
			Reference:     deposit.ID,
			Description:   fmt.Sprintf("Deposit via %s", deposit.Method),
			CreatedAt:     now,
		}

		if err := tx.PutUser(user); err != nil {
			return err
		}
		if err := tx.PutDeposit(deposit); err != nil {
			return err
		}
		if err := tx.PutLedgerEntry(entry); err != nil {
			return err
		}

		approved = deposit
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Deposit %s approved by %s", depositID, adminID)
	return approved, nil
}

func (uc *LedgerUseCase) RejectDeposit(ctx context.Context, adminID, depositID, notes string) (*entity.Deposit, error) {
	var rejected *entity.Deposit
	err := uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		deposit, err := tx.GetDeposit(ctx, depositID)
		if err != nil {
			return err
		}
		if deposit.Status != entity.RequestStatusPending {
			return errors.Conflict(fmt.Sprintf("Deposit is already %s", deposit.Status))
		}

		now := uc.now()
		deposit.Status = entity.RequestStatusRejected
		deposit.AdminNotes = notes
		deposit.ProcessedBy = adminID
		deposit.ProcessedAt = &now
		deposit.UpdatedAt = now

		if err := tx.PutDeposit(deposit); err != nil {
			return err
		}
		rejected = deposit
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Deposit %s rejected by %s", depositID, adminID)
	return rejected, nil
}

func (uc *LedgerUseCase) RequestWithdrawal(ctx context.Context, userID string, input WithdrawalInput) (*entity.Withdrawal, error) {
	if input.Amount < entity.MinWithdrawalCoins {
		return nil, errors.Validation(fmt.Sprintf("Minimum withdrawal is %d coins", entity.MinWithdrawalCoins))
	}
	if !entity.ValidPaymentMethod(input.Method) {
		return nil, errors.Validation(fmt.Sprintf("Invalid payout method: %s", input.Method))
	}
	if input.Account == "" {
		return nil, errors.Validation("Account is required")
	}
	if input.Method == entity.MethodBank && input.BankName == "" {
		return nil, errors.Validation("Bank name is required for bank transfers")
	}

	unlock, err := uc.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *entity.Withdrawal
	err = uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		pending, err := tx.PendingWithdrawalTotal(ctx, userID)
		if err != nil {
			return err
		}

		available := user.Coins - pending
		if input.Amount > available {
			return errors.InsufficientBalance(input.Amount, available)
		}

		now := uc.now()
		withdrawal := &entity.Withdrawal{
			ID:           uuid.New().String(),
			UserID:       userID,
			Amount:       input.Amount,
			PayoutAmount: uc.payout(input.Amount),
			Method:       input.Method,
			Account:      input.Account,
			BankName:     input.BankName,
			Status:       entity.RequestStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := tx.PutWithdrawal(withdrawal); err != nil {
			return err
		}
		created = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Withdrawal %s requested by %s: %d coins", created.ID, userID, created.Amount)
	return created, nil
}

func (uc *LedgerUseCase) payout(amount int64) string {
	return decimal.NewFromInt(amount).Mul(uc.payoutRate).StringFixed(2)
}

func (uc *LedgerUseCase) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID, notes string) (*entity.Withdrawal, error) {
	current, err := uc.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, errors.FromStore("Withdrawal", err)
	}

	unlock, err := uc.lockUser(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var approved *entity.Withdrawal
	err = uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		withdrawal, err := tx.GetWithdrawal(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal.Status != entity.RequestStatusPending {
			return errors.Conflict(fmt.Sprintf("Withdrawal is already %s", withdrawal.Status))
		}

		user, err := tx.GetUser(ctx, withdrawal.UserID)
		if err != nil {
			return err
		}
		if user.Coins < withdrawal.Amount {
			return errors.InsufficientBalance(withdrawal.Amount, user.Coins)
		}

		now := uc.now()
		before := user.Coins
		user.Coins -= withdrawal.Amount
		user.UpdatedAt = now

		withdrawal.Status = entity.RequestStatusApproved
		withdrawal.AdminNotes = notes
		withdrawal.ProcessedBy = adminID
		withdrawal.ProcessedAt = &now
		withdrawal.UpdatedAt = now

		entry := &entity.LedgerEntry{
			ID:            operationID(user.ID, opWithdrawal, withdrawal.ID),
			UserID:        user.ID,
			Type:          entity.LedgerWithdrawal,
			Amount:        -withdrawal.Amount,
			BalanceBefore: before,
			BalanceAfter:  user.Coins,
			Reference:     withdrawal.ID,
			Description:   fmt.Sprintf("Withdrawal to %s (%s)", withdrawal.Method, withdrawal.PayoutAmount),
			CreatedAt:     now,
		}

		if err := tx.PutUser(user); err != nil {
			return err
		}
		if err := tx.PutWithdrawal(withdrawal); err != nil {
			return err
		}
		if err := tx.PutLedgerEntry(entry); err != nil {
			return err
		}

		approved = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Withdrawal %s approved by %s", withdrawalID, adminID)
	return approved, nil
}

func (uc *LedgerUseCase) RejectWithdrawal(ctx context.Context, adminID, withdrawalID, notes string) (*entity.Withdrawal, error) {
	var rejected *entity.Withdrawal
	err := uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		withdrawal, err := tx.GetWithdrawal(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal.Status != entity.RequestStatusPending {
			return errors.Conflict(fmt.Sprintf("Withdrawal is already %s", withdrawal.Status))
		}

		now := uc.now()
		withdrawal.Status = entity.RequestStatusRejected
		withdrawal.AdminNotes = notes
		withdrawal.ProcessedBy = adminID
		withdrawal.ProcessedAt = &now
		withdrawal.UpdatedAt = now

		if err := tx.PutWithdrawal(withdrawal); err != nil {
			return err
		}
		rejected = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Withdrawal %s rejected by %s", withdrawalID, adminID)
	return rejected, nil
}

func (uc *LedgerUseCase) BuyMembership(ctx context.Context, userID, tierName, idempotencyKey string) (*MembershipResult, error) {
	tier, ok := uc.catalog.Tier(tierName)
	if !ok {
		return nil, errors.Validation(fmt.Sprintf("Unknown membership tier: %s", tierName))
	}

	opID := operationID(userID, opMembership, idempotencyKey)

	unlock, err := uc.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *MembershipResult
	err = uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		result = nil

		existing, err := tx.GetLedgerEntry(ctx, opID)
		switch {
		case err == nil:
			if existing.Reference != tier.Name {
				return errIdempotencyKeyReused
			}
			user, err := tx.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			result = &MembershipResult{Membership: user.Membership, Balance: user.Coins, Replayed: true}
			return nil
		case !errors.Is(err, errors.CodeNotFound):
			return err
		}

		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		available, err := spendable(ctx, tx, user)
		if err != nil {
			return err
		}
		if available < tier.Price {
			return errors.InsufficientBalance(tier.Price, available)
		}

		now := uc.now()
		before := user.Coins
		user.Coins -= tier.Price
		user.Membership = entity.Membership{
			Tier:      tier.Name,
			ExpiresAt: now.AddDate(0, 0, tier.Days),
		}
		user.UpdatedAt = now

		entry := &entity.LedgerEntry{
			ID:            opID,
			UserID:        userID,
			Type:          entity.LedgerMembership,
			Amount:        -tier.Price,
			BalanceBefore: before,
			BalanceAfter:  user.Coins,
			Reference:     tier.Name,
			Description:   fmt.Sprintf("%s membership for %d days", tier.Name, tier.Days),
			CreatedAt:     now,
		}

		if err := tx.PutUser(user); err != nil {
			return err
		}
		if err := tx.PutLedgerEntry(entry); err != nil {
			return err
		}

		result = &MembershipResult{Membership: user.Membership, Balance: user.Coins}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Replayed {
		logger.Info("User %s bought %s membership", userID, tier.Name)
	}
	return result, nil
}

func (uc *LedgerUseCase) GetWallet(ctx context.Context, userID string) (*WalletSummary, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	return &WalletSummary{
		Coins:            user.Coins,
		Membership:       user.Membership,
		MembershipActive: user.Membership.Active(uc.now()),
	}, nil
}

func (uc *LedgerUseCase) ListLedger(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	entries, total, err := uc.ledgerRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.FromStore("Ledger", err)
	}
	return entries, total, nil
}

func (uc *LedgerUseCase) ListPurchases(ctx context.Context, userID string) ([]*entity.Purchase, error) {
	purchases, err := uc.purchaseRepo.ListByBuyer(ctx, userID, walletHistoryLimit)
	if err != nil {
		return nil, errors.FromStore("Purchase", err)
	}
	return purchases, nil
}

func (uc *LedgerUseCase) ListDeposits(ctx context.Context, userID string) ([]*entity.Deposit, error) {
	deposits, err := uc.depositRepo.ListByUser(ctx, userID, walletHistoryLimit)
	if err != nil {
		return nil, errors.FromStore("Deposit", err)
	}
	return deposits, nil
}

func (uc *LedgerUseCase) ListWithdrawals(ctx context.Context, userID string) ([]*entity.Withdrawal, error) {
	withdrawals, err := uc.withdrawalRepo.ListByUser(ctx, userID, walletHistoryLimit)
	if err != nil {
		return nil, errors.FromStore("Withdrawal", err)
	}
	return withdrawals, nil
}

func (uc *LedgerUseCase) PendingDeposits(ctx context.Context) ([]*entity.Deposit, error) {
	deposits, err := uc.depositRepo.ListByStatus(ctx, entity.RequestStatusPending, adminQueueLimit)
	if err != nil {
		return nil, errors.FromStore("Deposit", err)
	}
	return deposits, nil
}

func (uc *LedgerUseCase) PendingWithdrawals(ctx context.Context) ([]*entity.Withdrawal, error) {
	withdrawals, err := uc.withdrawalRepo.ListByStatus(ctx, entity.RequestStatusPending, adminQueueLimit)
	if err != nil {
		return nil, errors.FromStore("Withdrawal", err)
	}
	return withdrawals, nil
}

func (uc *LedgerUseCase) Statistics(ctx context.Context) (*WalletStatistics, error) {
	pendingDeposits, err := uc.depositRepo.CountByStatus(ctx, entity.RequestStatusPending)
	if err != nil {
		return nil, errors.FromStore("Deposit", err)
	}
	pendingWithdrawals, err := uc.withdrawalRepo.CountByStatus(ctx, entity.RequestStatusPending)
	if err != nil {
		return nil, errors.FromStore("Withdrawal", err)
	}
	totalCoins, err := uc.userRepo.TotalCoins(ctx)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	return &WalletStatistics{
		PendingDeposits:    pendingDeposits,
		PendingWithdrawals: pendingWithdrawals,
		TotalCoins:         totalCoins,
	}, nil
}

func allowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}
