package repository

import (
	"context"

	"valomarket/internal/domain/entity"
)

type DepositRepository interface {
	Create(ctx context.Context, deposit *entity.Deposit) error
	GetByID(ctx context.Context, id string) (*entity.Deposit, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Deposit, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Deposit, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type WithdrawalRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Withdrawal, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Withdrawal, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Withdrawal, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type LedgerRepository interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error)
}

type PurchaseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Purchase, error)
}
