package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"valomarket/internal/adapter/repository/memory"
	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/internal/infrastructure/lock"
	"valomarket/internal/infrastructure/pricing"
	"valomarket/internal/infrastructure/ratelimit"
	"valomarket/internal/infrastructure/storage"
)

type fixture struct {
	store    *memory.Store
	files    *storage.MemoryStorage
	ledger   *LedgerUseCase
	listings *ListingUseCase
	users    *UserUseCase
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	files := storage.NewMemoryStorage()
	f := &fixture{
		store: store,
		files: files,
		clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return f.clock }

	f.ledger = NewLedgerUseCase(
		store,
		store.Users(),
		store.Deposits(),
		store.Withdrawals(),
		store.Ledger(),
		store.Purchases(),
		files,
		pricing.Default(),
		lock.NewKeyedMutex(),
		decimal.RequireFromString("0.9"),
	)
	f.ledger.now = now

	f.listings = NewListingUseCase(store, store.Listings(), store.Users(), files, ratelimit.NewRateLimiter())
	f.listings.now = now

	f.users = NewUserUseCase(store, store.Users(), store.Listings(), nil, 100)
	f.users.now = now

	return f
}

func (f *fixture) tick() {
	f.clock = f.clock.Add(time.Minute)
}

func (f *fixture) seedUser(t *testing.T, id string, coins int64) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:            id,
		Email:         id + "@example.com",
		Username:      id,
		UsernameLower: entity.NormalizeUsername(id),
		Role:          entity.RoleUser,
		Coins:         coins,
		Membership:    entity.Membership{Tier: entity.MembershipNone},
		CreatedAt:     f.clock,
		UpdatedAt:     f.clock,
	}
	err := f.store.RunTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		if err := tx.ClaimUsername(user.UsernameLower, id); err != nil {
			return err
		}
		return tx.PutUser(user)
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) seedAdmin(t *testing.T, id string) *entity.User {
	t.Helper()
	user := f.seedUser(t, id, 0)
	require.NoError(t, f.store.Users().SetRole(context.Background(), id, entity.RoleAdmin))
	user.Role = entity.RoleAdmin
	return user
}

func (f *fixture) seedListing(t *testing.T, sellerID string, price int64, status string) *entity.Listing {
	t.Helper()

	f.tick()
	listing := &entity.Listing{
		Title:     entity.ListingTitle("diamond", 40),
		Rank:      "diamond",
		Skins:     40,
		Price:     price,
		SellType:  entity.SellTypeFull,
		Contact:   &entity.Contact{Discord: sellerID + "#0001"},
		SellerID:  sellerID,
		Status:    status,
		CreatedAt: f.clock,
		UpdatedAt: f.clock,
	}
	require.NoError(t, f.store.Listings().Create(context.Background(), listing))
	return listing
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	t.Helper()
	user, err := f.store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Coins
}

func (f *fixture) setBalance(t *testing.T, userID string, coins int64) {
	t.Helper()
	err := f.store.RunTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		user.Coins = coins
		return tx.PutUser(user)
	})
	require.NoError(t, err)
}
