package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = r.client.Collection(listingsCollection).NewDoc().ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection(listingsCollection).Doc(listing.ID).Create(ctx, listing)
	return errors.FromStore("Listing", err)
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return getByID[entity.Listing](ctx, r.client.Collection(listingsCollection).Doc(id), "Listing")
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(listingsCollection).Doc(id).Delete(ctx, firestore.Exists)
	return errors.FromStore("Listing", err)
}

func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, int64, error) {
	query := r.client.Collection(listingsCollection).Query

	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Rank != "" {
		query = query.Where("rank", "==", filter.Rank)
	}

	total, err := count(ctx, query, "Listing")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), filter.Limit, filter.Offset)
	listings, err := collect[entity.Listing](query.Documents(ctx), "Listing")
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return count(ctx, r.client.Collection(listingsCollection).Where("status", "==", status), "Listing")
}
