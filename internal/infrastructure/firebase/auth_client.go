package firebase

import (
	"context"
	stderrors "errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"valomarket/internal/domain/entity"
	"valomarket/pkg/errors"
)

type FirebaseAuthClient struct {
	client  *auth.Client
	toolkit *identitytoolkit.Service
}

// NewFirebaseAuthClient wraps the Admin SDK client. apiKey enables password
// sign-in through the Identity Toolkit; without it SignInWithPassword fails.
func NewFirebaseAuthClient(ctx context.Context, client *auth.Client, apiKey string) (*FirebaseAuthClient, error) {
	f := &FirebaseAuthClient{client: client}

	if apiKey != "" {
		toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
		}
		f.toolkit = toolkit
	}

	return f, nil
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", errors.Conflict("Email already in use")
		}
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

func (f *FirebaseAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthToken, error) {
	if f.toolkit == nil {
		return nil, errors.Internal("Password sign-in is not configured", nil)
	}

	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if stderrors.As(err, &apiErr) && apiErr.Code == 400 {
			return nil, errors.Unauthorized("Invalid credentials", err)
		}
		return nil, errors.Transient("Identity service unavailable", err)
	}

	return &entity.AuthToken{
		UID:          resp.LocalId,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*entity.Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	return &entity.Identity{
		UID:     result.UID,
		Email:   claimString(result.Claims, "email"),
		Name:    claimString(result.Claims, "name"),
		Picture: claimString(result.Claims, "picture"),
		Role:    claimString(result.Claims, "role"),
	}, nil
}

// SetRoleClaim mirrors the stored role into the token's custom claims.
func (f *FirebaseAuthClient) SetRoleClaim(ctx context.Context, uid, role string) error {
	return f.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role})
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
