package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

const (
	adminUserListLimit = 50
	userSearchScan     = 500
)

type UserUseCase struct {
	transactor   repository.Transactor
	userRepo     repository.UserRepository
	listingRepo  repository.ListingRepository
	roleClaimer  RoleClaimer
	welcomeBonus int64
	now          func() time.Time
}

// NewUserUseCase builds the profile use case. roleClaimer may be nil when
// the identity provider has no custom claims.
func NewUserUseCase(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	roleClaimer RoleClaimer,
	welcomeBonus int64,
) *UserUseCase {
	return &UserUseCase{
		transactor:   transactor,
		userRepo:     userRepo,
		listingRepo:  listingRepo,
		roleClaimer:  roleClaimer,
		welcomeBonus: welcomeBonus,
		now:          time.Now,
	}
}

type UpdateProfileInput struct {
	Username string
	Phone    string
	Avatar   string
}

type Dashboard struct {
	Coins            int64             `json:"coins"`
	Membership       entity.Membership `json:"membership"`
	MembershipActive bool              `json:"membership_active"`
	TotalSales       int               `json:"total_sales"`
	TotalPurchases   int               `json:"total_purchases"`
	Rating           float64           `json:"rating"`
	PendingListings  int64             `json:"pending_listings"`
	ActiveListings   int64             `json:"active_listings"`
}

// CreateProfile stores the profile for a freshly verified identity and
// credits the welcome bonus. An existing profile is returned unchanged with
// created=false.
func (uc *UserUseCase) CreateProfile(ctx context.Context, ident *entity.Identity, username string) (*entity.User, bool, error) {
	if !entity.ValidUsername(username) {
		return nil, false, errors.Validation("Username must be 3-20 letters, digits or underscores")
	}
	lower := entity.NormalizeUsername(username)

	var (
		user    *entity.User
		created bool
	)
	err := uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		user, created = nil, false

		existing, err := tx.GetUser(ctx, ident.UID)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, errors.CodeNotFound) {
			return err
		}

		owner, err := tx.UsernameOwner(ctx, lower)
		if err != nil {
			return err
		}
		if owner != "" && owner != ident.UID {
			return errors.Conflict("Username is already taken")
		}

		now := uc.now()
		user = &entity.User{
			ID:            ident.UID,
			Email:         ident.Email,
			Username:      username,
			UsernameLower: lower,
			Avatar:        ident.Picture,
			Role:          entity.RoleUser,
			Coins:         uc.welcomeBonus,
			Membership:    entity.Membership{Tier: entity.MembershipNone},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := tx.ClaimUsername(lower, ident.UID); err != nil {
			return err
		}
		if err := tx.PutUser(user); err != nil {
			return err
		}
		if uc.welcomeBonus > 0 {
			entry := &entity.LedgerEntry{
				ID:            operationID(ident.UID, opWelcome, ident.UID),
				UserID:        ident.UID,
				Type:          entity.LedgerWelcomeBonus,
				Amount:        uc.welcomeBonus,
				BalanceBefore: 0,
				BalanceAfter:  uc.welcomeBonus,
				Description:   "Welcome bonus",
				CreatedAt:     now,
			}
			if err := tx.PutLedgerEntry(entry); err != nil {
				return err
			}
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.Info("Created profile %s (%s) with %d welcome coins", user.ID, user.Username, uc.welcomeBonus)
	}
	return user, created, nil
}

func (uc *UserUseCase) GetUserProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}
	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	if input.Username != "" && !entity.ValidUsername(input.Username) {
		return nil, errors.Validation("Username must be 3-20 letters, digits or underscores")
	}

	var updated *entity.User
	err := uc.transactor.RunTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		if input.Username != "" && input.Username != user.Username {
			lower := entity.NormalizeUsername(input.Username)
			if lower != user.UsernameLower {
				owner, err := tx.UsernameOwner(ctx, lower)
				if err != nil {
					return err
				}
				if owner != "" && owner != userID {
					return errors.Conflict("Username is already taken")
				}
				if user.UsernameLower != "" {
					if err := tx.ReleaseUsername(user.UsernameLower); err != nil {
						return err
					}
				}
				if err := tx.ClaimUsername(lower, userID); err != nil {
					return err
				}
			}
			user.Username = input.Username
			user.UsernameLower = lower
		}

		if input.Phone != "" {
			user.Phone = input.Phone
		}
		if input.Avatar != "" {
			user.Avatar = input.Avatar
		}
		user.UpdatedAt = uc.now()

		if err := tx.PutUser(user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (uc *UserUseCase) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	_, pending, err := uc.listingRepo.List(ctx, repository.ListingFilter{
		SellerID: userID,
		Status:   entity.ListingStatusPending,
		Limit:    1,
	})
	if err != nil {
		return nil, errors.FromStore("Listing", err)
	}
	_, active, err := uc.listingRepo.List(ctx, repository.ListingFilter{
		SellerID: userID,
		Status:   entity.ListingStatusApproved,
		Limit:    1,
	})
	if err != nil {
		return nil, errors.FromStore("Listing", err)
	}

	return &Dashboard{
		Coins:            user.Coins,
		Membership:       user.Membership,
		MembershipActive: user.Membership.Active(uc.now()),
		TotalSales:       user.Stats.TotalSales,
		TotalPurchases:   user.Stats.TotalPurchases,
		Rating:           user.Stats.Rating,
		PendingListings:  pending,
		ActiveListings:   active,
	}, nil
}

// ListUsers returns the newest users, optionally filtered by a substring of
// username or email.
func (uc *UserUseCase) ListUsers(ctx context.Context, search string) ([]*entity.User, error) {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		users, err := uc.userRepo.List(ctx, adminUserListLimit)
		if err != nil {
			return nil, errors.FromStore("User", err)
		}
		return users, nil
	}

	users, err := uc.userRepo.List(ctx, userSearchScan)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	matched := make([]*entity.User, 0, adminUserListLimit)
	for _, u := range users {
		if strings.Contains(u.UsernameLower, q) || strings.Contains(strings.ToLower(u.Email), q) {
			matched = append(matched, u)
			if len(matched) == adminUserListLimit {
				break
			}
		}
	}
	return matched, nil
}

// SetRole changes a user's role on the profile and, when supported, in the
// identity provider's claims.
func (uc *UserUseCase) SetRole(ctx context.Context, userID, role string) error {
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return errors.Validation(fmt.Sprintf("Unknown role: %s", role))
	}

	if err := uc.userRepo.SetRole(ctx, userID, role); err != nil {
		return errors.FromStore("User", err)
	}

	if uc.roleClaimer != nil {
		if err := uc.roleClaimer.SetRoleClaim(ctx, userID, role); err != nil {
			return errors.Internal("Role stored but claim update failed", err)
		}
	}

	logger.Info("Role of %s set to %s", userID, role)
	return nil
}

// IsAdmin reads the stored role. Token claims are never trusted for this.
func (uc *UserUseCase) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, errors.FromStore("User", err)
	}
	return user.IsAdmin(), nil
}
