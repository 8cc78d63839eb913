package repository

import (
	"context"

	"valomarket/internal/domain/entity"
)

// Transactor runs fn atomically. Either every Put made through tx is
// committed or none is. Implementations may call fn more than once.
type Transactor interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the unit of work handed to a transaction function. Get methods
// return a NOT_FOUND AppError for missing documents. Put methods stage
// writes that become visible only on commit.
type Tx interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	PutUser(user *entity.User) error

	// UsernameOwner returns the id of the user holding usernameLower, or "".
	UsernameOwner(ctx context.Context, usernameLower string) (string, error)
	ClaimUsername(usernameLower, userID string) error
	ReleaseUsername(usernameLower string) error

	GetListing(ctx context.Context, id string) (*entity.Listing, error)
	PutListing(listing *entity.Listing) error

	GetDeposit(ctx context.Context, id string) (*entity.Deposit, error)
	PutDeposit(deposit *entity.Deposit) error

	GetWithdrawal(ctx context.Context, id string) (*entity.Withdrawal, error)
	PutWithdrawal(withdrawal *entity.Withdrawal) error
	PendingWithdrawalTotal(ctx context.Context, userID string) (int64, error)

	GetLedgerEntry(ctx context.Context, id string) (*entity.LedgerEntry, error)
	PutLedgerEntry(entry *entity.LedgerEntry) error

	GetPurchase(ctx context.Context, id string) (*entity.Purchase, error)
	PutPurchase(purchase *entity.Purchase) error
}
