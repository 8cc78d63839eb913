package repository

import (
	"context"

	"valomarket/internal/domain/entity"
)

// ListingFilter narrows a listing query. Results are always newest first.
type ListingFilter struct {
	Status   string
	SellerID string
	Rank     string
	Limit    int
	Offset   int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListingFilter) ([]*entity.Listing, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}
