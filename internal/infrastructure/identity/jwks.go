package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"valomarket/internal/domain/entity"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

type oidcClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWKSVerifier validates tokens from an external OIDC issuer against its published key set.
type JWKSVerifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

func NewJWKSVerifier(jwksURL, issuer, audience string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("JWKS refresh failed for %s: %v", jwksURL, err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}

	return newJWKSVerifier(jwks, issuer, audience), nil
}

func newJWKSVerifier(jwks *keyfunc.JWKS, issuer, audience string) *JWKSVerifier {
	return &JWKSVerifier{
		jwks:     jwks,
		issuer:   issuer,
		audience: audience,
	}
}

func (v *JWKSVerifier) VerifyToken(ctx context.Context, tokenStr string) (*entity.Identity, error) {
	claims := &oidcClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, v.jwks.Keyfunc)
	if err != nil || !token.Valid {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, errors.Unauthorized("Token issuer not accepted", nil)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, errors.Unauthorized("Token audience not accepted", nil)
	}
	if claims.Subject == "" {
		return nil, errors.Unauthorized("Token has no subject", nil)
	}

	return &entity.Identity{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Role:    claims.Role,
	}, nil
}

func (v *JWKSVerifier) Close() {
	v.jwks.EndBackground()
}
