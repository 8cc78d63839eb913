package repository

import (
	"context"

	"valomarket/internal/domain/entity"
)

// UserRepository covers user reads. Documents are written through a Tx,
// except for the role which is managed out of band.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	SetRole(ctx context.Context, id, role string) error
	List(ctx context.Context, limit int) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
	TotalCoins(ctx context.Context) (int64, error)
}
