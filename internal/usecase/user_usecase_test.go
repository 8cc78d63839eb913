package usecase

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valomarket/internal/domain/entity"
	"valomarket/internal/usecase/mocks"
	"valomarket/pkg/errors"
)

func TestCreateProfileCreditsWelcomeBonusOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ident := &entity.Identity{UID: "uid-1", Email: "new@example.com"}

	user, created, err := f.users.CreateProfile(ctx, ident, "NewPlayer")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(100), user.Coins)
	assert.Equal(t, "newplayer", user.UsernameLower)
	assert.Equal(t, entity.RoleUser, user.Role)

	again, created, err := f.users.CreateProfile(ctx, ident, "Whatever")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "NewPlayer", again.Username)
	assert.Equal(t, int64(100), f.balance(t, "uid-1"))

	entries, total, err := f.ledger.ListLedger(ctx, "uid-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entity.LedgerWelcomeBonus, entries[0].Type)

	_, _, err = f.users.CreateProfile(ctx, &entity.Identity{UID: "uid-2"}, "newplayer")
	assert.True(t, errors.Is(err, errors.CodeConflict))

	_, _, err = f.users.CreateProfile(ctx, &entity.Identity{UID: "uid-3"}, "x")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "alice", 0)
	f.seedUser(t, "bob", 0)

	_, err := f.users.UpdateProfile(ctx, "alice", UpdateProfileInput{Username: "BOB"})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	updated, err := f.users.UpdateProfile(ctx, "alice", UpdateProfileInput{Username: "alice_v2", Phone: "0812345678"})
	require.NoError(t, err)
	assert.Equal(t, "alice_v2", updated.Username)
	assert.Equal(t, "0812345678", updated.Phone)

	byName, err := f.store.Users().GetByUsername(ctx, "ALICE_V2")
	require.NoError(t, err)
	assert.Equal(t, "alice", byName.ID)

	_, err = f.store.Users().GetByUsername(ctx, "alice")
	assert.True(t, errors.Is(err, errors.CodeNotFound), "old username is released")

	_, err = f.users.UpdateProfile(ctx, "bob", UpdateProfileInput{Username: "alice"})
	assert.NoError(t, err)
}

func TestDashboardAndListUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "seller", 420)
	f.seedUser(t, "someone", 0)
	f.seedListing(t, "seller", 100, entity.ListingStatusPending)
	f.seedListing(t, "seller", 100, entity.ListingStatusPending)
	f.seedListing(t, "seller", 100, entity.ListingStatusApproved)

	dash, err := f.users.Dashboard(ctx, "seller")
	require.NoError(t, err)
	assert.Equal(t, int64(420), dash.Coins)
	assert.Equal(t, int64(2), dash.PendingListings)
	assert.Equal(t, int64(1), dash.ActiveListings)

	all, err := f.users.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := f.users.ListUsers(ctx, "SELL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "seller", found[0].ID)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	f.seedUser(t, "u1", 0)

	claimer := mocks.NewMockRoleClaimer(ctrl)
	f.users.roleClaimer = claimer
	claimer.EXPECT().SetRoleClaim(gomock.Any(), "u1", entity.RoleAdmin).Return(nil)

	require.NoError(t, f.users.SetRole(ctx, "u1", entity.RoleAdmin))

	isAdmin, err := f.users.IsAdmin(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = f.users.IsAdmin(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	err = f.users.SetRole(ctx, "u1", "superuser")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}
