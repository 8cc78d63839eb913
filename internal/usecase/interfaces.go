package usecase

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"io"

	"valomarket/internal/domain/entity"
)

// TokenVerifier turns a bearer token into the identity it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entity.Identity, error)
}

// IdentityProvider owns credentials. Profiles live in our own store.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthToken, error)
}

// RoleClaimer mirrors a user's role into the identity provider's token claims.
type RoleClaimer interface {
	SetRoleClaim(ctx context.Context, uid, role string) error
}

type FileStorage interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string, isPublic bool) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// Notifier pushes live events. Delivery is best effort.
type Notifier interface {
	NotifyUser(userID, eventType string, data interface{})
	NotifyAdmins(eventType string, data interface{})
}
