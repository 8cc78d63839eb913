package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/internal/infrastructure/ratelimit"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
	"valomarket/pkg/utils"
)

const (
	MaxListingImages = 5

	// Firestore has no full-text search, so filtered marketplace queries
	// scan at most this many approved listings.
	marketplaceScanLimit = 1000
)

type ListingUseCase struct {
	transactor  repository.Transactor
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	storage     FileStorage
	scanLimit   int
	rateLimiter *ratelimit.RateLimiter
	now         func() time.Time
}

func NewListingUseCase(
	transactor repository.Transactor,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	storage FileStorage,
	rateLimiter *ratelimit.RateLimiter,
) *ListingUseCase {
	return &ListingUseCase{
		transactor:  transactor,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		storage:     storage,
		rateLimiter: rateLimiter,
		scanLimit:   marketplaceScanLimit,
		now:         time.Now,
	}
}

type CreateListingInput struct {
	Rank          string
	Skins         int
	Price         int64
	FeaturedSkins string
	Highlights    string
	SellType      string
	Image         string
	Images        []string
	Contact       entity.Contact
}

// UpdateListingInput carries an admin edit. Nil fields are left untouched.
type UpdateListingInput struct {
	Title         *string
	Rank          *string
	Skins         *int
	Price         *int64
	FeaturedSkins *string
	Highlights    *string
	Image         *string
	Contact       *entity.Contact
}

type MarketplaceFilter struct {
	Rank     string
	MinPrice int64
	MaxPrice int64
	Search   string
	Limit    int
	Offset   int
}

type ImageUpload struct {
	File        io.Reader
	ContentType string
}

type SiteStats struct {
	ApprovedListings int64 `json:"approved_listings"`
	SoldListings     int64 `json:"sold_listings"`
	Users            int64 `json:"users"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	if !entity.ValidRank(input.Rank) {
		return nil, errors.Validation(fmt.Sprintf("Invalid rank: %s", input.Rank))
	}
	if input.Skins < 0 {
		return nil, errors.Validation("Skins must not be negative")
	}
	if input.Price <= 0 {
		return nil, errors.Validation("Price must be greater than zero")
	}
	if !input.Contact.HasAny() {
		return nil, errors.Validation("At least one contact channel is required")
	}
	if len(input.Images) > MaxListingImages {
		return nil, errors.Validation(fmt.Sprintf("A listing can have at most %d images", MaxListingImages))
	}

	sellType := input.SellType
	if sellType == "" {
		sellType = entity.SellTypeFull
	}
	if sellType != entity.SellTypeFull && sellType != entity.SellTypePartial {
		return nil, errors.Validation(fmt.Sprintf("Invalid sell type: %s", input.SellType))
	}

	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	image := input.Image
	if image == "" && len(input.Images) > 0 {
		image = input.Images[0]
	}

	now := uc.now()
	contact := input.Contact
	listing := &entity.Listing{
		Title:         entity.ListingTitle(input.Rank, input.Skins),
		Rank:          input.Rank,
		Skins:         input.Skins,
		Price:         input.Price,
		FeaturedSkins: input.FeaturedSkins,
		Highlights:    input.Highlights,
		SellType:      sellType,
		Image:         image,
		Images:        input.Images,
		Contact:       &contact,
		SellerID:      sellerID,
		SellerName:    seller.Username,
		Status:        entity.ListingStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, errors.FromStore("Listing", err)
	}

	logger.Info("Listing %s submitted by %s", listing.ID, sellerID)
	return listing, nil
}

// GetListing hides unmoderated listings from everyone but their seller and
// admins, and strips the contact unless the viewer is the seller, an admin
// or the buyer. viewerID is empty for anonymous requests.
func (uc *ListingUseCase) GetListing(ctx context.Context, id, viewerID string, viewerIsAdmin bool) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.FromStore("Listing", err)
	}

	isSeller := viewerID != "" && viewerID == listing.SellerID
	if !listing.Public() && !isSeller && !viewerIsAdmin {
		return nil, errors.NotFound("Listing", nil)
	}

	isBuyer := viewerID != "" && viewerID == listing.BuyerID
	if isSeller || isBuyer || viewerIsAdmin {
		return listing, nil
	}
	return listing.Redacted(), nil
}

// Marketplace lists approved listings newest first with contacts stripped.
func (uc *ListingUseCase) Marketplace(ctx context.Context, filter MarketplaceFilter) ([]*entity.Listing, int64, error) {
	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return nil, 0, errors.Validation("min_price must not exceed max_price")
	}
	if filter.Rank != "" && !entity.ValidRank(filter.Rank) {
		return nil, 0, errors.Validation(fmt.Sprintf("Invalid rank: %s", filter.Rank))
	}

	query := repository.ListingFilter{
		Status: entity.ListingStatusApproved,
		Rank:   filter.Rank,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	inMemory := filter.MinPrice > 0 || filter.MaxPrice > 0 || filter.Search != ""
	if inMemory {
		query.Limit = uc.scanLimit
		query.Offset = 0
	}

	listings, total, err := uc.listingRepo.List(ctx, query)
	if err != nil {
		return nil, 0, errors.FromStore("Listing", err)
	}

	if inMemory {
		if scanned := int64(len(listings)); scanned < total {
			logger.Warn("Marketplace filter scanned %d of %d approved listings; older listings are not matched", scanned, total)
		}

		matched := make([]*entity.Listing, 0, len(listings))
		for _, l := range listings {
			if filter.MinPrice > 0 && l.Price < filter.MinPrice {
				continue
			}
			if filter.MaxPrice > 0 && l.Price > filter.MaxPrice {
				continue
			}
			if !l.Matches(filter.Search) {
				continue
			}
			matched = append(matched, l)
		}

		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})

		total = int64(len(matched))
		start, end := utils.Window(len(matched), filter.Offset, filter.Limit)
		listings = matched[start:end]
	}

	return redactAll(listings), total, nil
}

func redactAll(listings []*entity.Listing) []*entity.Listing {
	out := make([]*entity.Listing, len(listings))
	for i, l := range listings {
		out[i] = l.Redacted()
	}
	return out
}

func (uc *ListingUseCase) MyListings(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	listings, total, err := uc.listingRepo.List(ctx, repository.ListingFilter{
		SellerID: sellerID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, 0, errors.FromStore("Listing", err)
	}
	return listings, total, nil
}

func (uc *ListingUseCase) AdminList(ctx context.Context, status string, limit, offset int) ([]*entity.Listing, int64, error) {
	switch status {
	case "", entity.ListingStatusPending, entity.ListingStatusApproved, entity.ListingStatusRejected, entity.ListingStatusSold:
	default:
		return nil, 0, errors.Validation(fmt.Sprintf("Invalid status: %s", status))
	}

	listings, total, err := uc.listingRepo.List(ctx, repository.ListingFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, errors.FromStore("Listing", err)
	}
	return listings, total, nil
}

func (uc *ListingUseCase) PendingListings(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.AdminList(ctx, entity.ListingStatusPending, limit, offset)
}

func (uc *ListingUseCase) Approve(ctx context.Context, adminID, id string) (*entity.Listing, error) {
	listing, err := uc.moderate(ctx, id, func(l *entity.Listing, now time.Time) error {
		return l.Approve(now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Listing %s approved by %s", id, adminID)
	return listing, nil
}

func (uc *ListingUseCase) Reject(ctx context.Context, adminID, id, reason string) (*entity.Listing, error) {
	listing, err := uc.moderate(ctx, id, func(l *entity.Listing, now time.Time) error {
		return l.Reject(reason, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Listing %s rejected by %s", id, adminID)
	return listing, nil
}

func (uc *ListingUseCase) moderate(ctx context.Context, id string, transition func(*entity.Listing, time.Time) error) (*entity.Listing, error) {
	var moderated *entity.Listing
	err := uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		listing, err := tx.GetListing(ctx, id)
		if err != nil {
			return err
		}

		if err := transition(listing, uc.now()); err != nil {
			return errors.Conflict(fmt.Sprintf("Listing is %s and cannot be moderated", listing.Status))
		}

		if err := tx.PutListing(listing); err != nil {
			return err
		}
		moderated = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moderated, nil
}

// AdminUpdate edits listing fields. The status is never changed here.
func (uc *ListingUseCase) AdminUpdate(ctx context.Context, id string, input UpdateListingInput) (*entity.Listing, error) {
	if input.Rank != nil && !entity.ValidRank(*input.Rank) {
		return nil, errors.Validation(fmt.Sprintf("Invalid rank: %s", *input.Rank))
	}
	if input.Skins != nil && *input.Skins < 0 {
		return nil, errors.Validation("Skins must not be negative")
	}
	if input.Price != nil && *input.Price <= 0 {
		return nil, errors.Validation("Price must be greater than zero")
	}
	if input.Contact != nil && !input.Contact.HasAny() {
		return nil, errors.Validation("At least one contact channel is required")
	}

	var updated *entity.Listing
	err := uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		listing, err := tx.GetListing(ctx, id)
		if err != nil {
			return err
		}

		retitle := false
		if input.Rank != nil {
			listing.Rank = *input.Rank
			retitle = true
		}
		if input.Skins != nil {
			listing.Skins = *input.Skins
			retitle = true
		}
		if retitle {
			listing.Title = entity.ListingTitle(listing.Rank, listing.Skins)
		}
		if input.Title != nil && *input.Title != "" {
			listing.Title = *input.Title
		}
		if input.Price != nil {
			listing.Price = *input.Price
		}
		if input.FeaturedSkins != nil {
			listing.FeaturedSkins = *input.FeaturedSkins
		}
		if input.Highlights != nil {
			listing.Highlights = *input.Highlights
		}
		if input.Image != nil {
			listing.Image = *input.Image
		}
		if input.Contact != nil {
			contact := *input.Contact
			listing.Contact = &contact
		}
		listing.UpdatedAt = uc.now()

		if err := tx.PutListing(listing); err != nil {
			return err
		}
		updated = listing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *ListingUseCase) Delete(ctx context.Context, adminID, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return errors.FromStore("Listing", err)
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return errors.FromStore("Listing", err)
	}

	for _, url := range listing.Images {
		if err := uc.storage.DeleteFile(ctx, url); err != nil {
			logger.Warn("Failed to delete image %s of listing %s: %v", url, id, err)
		}
	}

	logger.Info("Listing %s deleted by %s", id, adminID)
	return nil
}

// UploadImages stores listing images and returns their public URLs.
func (uc *ListingUseCase) UploadImages(ctx context.Context, userID string, images []ImageUpload) ([]string, error) {
	if len(images) == 0 {
		return nil, errors.Validation("At least one image is required")
	}
	if len(images) > MaxListingImages {
		return nil, errors.Validation(fmt.Sprintf("At most %d images can be uploaded", MaxListingImages))
	}
	for _, img := range images {
		if !allowedImageType(img.ContentType) {
			return nil, errors.Validation("Images must be JPEG, PNG or WebP")
		}
	}

	if ok, wait := uc.rateLimiter.Allow(userID, ratelimit.ActionUpload); !ok {
		return nil, errors.TooManyRequests(fmt.Sprintf("Too many uploads, retry in %s", wait.Round(time.Second)))
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := uc.storage.UploadFile(ctx, img.File, img.ContentType, "listings/"+userID, true)
		if err != nil {
			return nil, errors.Internal("Failed to upload image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (uc *ListingUseCase) SiteStats(ctx context.Context) (*SiteStats, error) {
	approved, err := uc.listingRepo.CountByStatus(ctx, entity.ListingStatusApproved)
	if err != nil {
		return nil, errors.FromStore("Listing", err)
	}
	sold, err := uc.listingRepo.CountByStatus(ctx, entity.ListingStatusSold)
	if err != nil {
		return nil, errors.FromStore("Listing", err)
	}
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	return &SiteStats{
		ApprovedListings: approved,
		SoldListings:     sold,
		Users:            users,
	}, nil
}
