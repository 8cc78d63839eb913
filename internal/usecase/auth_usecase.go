package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

const (
	minPasswordLength    = 6
	maxUsernameAttempts  = 3
	generatedBaseMaxSize = 15
)

var usernameStrip = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity IdentityProvider
	users    *UserUseCase
}

func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityProvider, users *UserUseCase) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
		users:    users,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

type AuthResult struct {
	User  *entity.User      `json:"user"`
	Token *entity.AuthToken `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if len(input.Password) < minPasswordLength {
		return nil, errors.Validation("Password must be at least 6 characters")
	}
	if !entity.ValidUsername(input.Username) {
		return nil, errors.Validation("Username must be 3-20 letters, digits or underscores")
	}

	if _, err := uc.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, errors.Conflict("Username is already taken")
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.FromStore("User", err)
	}

	uid, err := uc.identity.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create account")
	}

	user, _, err := uc.users.CreateProfile(ctx, &entity.Identity{UID: uid, Email: input.Email, Name: input.Username}, input.Username)
	if err != nil {
		if delErr := uc.identity.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back account %s after profile error: %v", uid, delErr)
		}
		return nil, err
	}

	token, err := uc.identity.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to issue token")
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login accepts either a username or an email as identifier.
func (uc *AuthUseCase) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	email := strings.TrimSpace(identifier)
	if !strings.Contains(email, "@") {
		user, err := uc.userRepo.GetByUsername(ctx, email)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return nil, errors.Unauthorized("Invalid credentials", nil)
			}
			return nil, errors.FromStore("User", err)
		}
		email = user.Email
	}

	token, err := uc.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to sign in")
	}

	user, err := uc.Session(ctx, &entity.Identity{UID: token.UID, Email: email})
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Session returns the profile for a verified identity, creating it with a
// generated username on first sight.
func (uc *AuthUseCase) Session(ctx context.Context, ident *entity.Identity) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, ident.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.FromStore("User", err)
	}

	base := usernameBase(ident)
	candidate := base
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		user, _, err = uc.users.CreateProfile(ctx, ident, candidate)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, errors.CodeConflict) {
			return nil, err
		}
		candidate = base + "_" + uuid.New().String()[:4]
	}

	return nil, err
}

func usernameBase(ident *entity.Identity) string {
	base := ident.Name
	if base == "" {
		base = strings.SplitN(ident.Email, "@", 2)[0]
	}
	base = usernameStrip.ReplaceAllString(base, "")
	if len(base) > generatedBaseMaxSize {
		base = base[:generatedBaseMaxSize]
	}
	for len(base) < 3 {
		base += "_"
	}
	return base
}
