package identity

import (
	"context"

	"valomarket/internal/domain/entity"
	"valomarket/pkg/errors"
)

// ExternalProvider stands in for password accounts when users sign in at an
// external OIDC issuer. Clients call the session endpoint with the issuer's
// token instead.
type ExternalProvider struct{}

var errExternalSignIn = errors.BadRequest("Password accounts are managed by the external identity provider", nil)

func (ExternalProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	return "", errExternalSignIn
}

func (ExternalProvider) DeleteUser(ctx context.Context, uid string) error {
	return errExternalSignIn
}

func (ExternalProvider) SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthToken, error) {
	return nil, errExternalSignIn
}
