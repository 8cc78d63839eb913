// Package identity holds the non-Firebase token verifiers: a local
// password provider issuing HS256 tokens, and a JWKS verifier for an
// external OIDC issuer.
package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"valomarket/internal/domain/entity"
	"valomarket/pkg/errors"
)

const localIssuer = "valomarket-local"

type account struct {
	uid   string
	email string
	name  string
	hash  []byte
}

type localClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// LocalProvider keeps bcrypt credentials in memory. It backs development and tests.
type LocalProvider struct {
	mu      sync.RWMutex
	byEmail map[string]*account
	byUID   map[string]*account
	secret  []byte
	expiry  time.Duration
	cost    int
	now     func() time.Time
}

func NewLocalProvider(secret string, expiry time.Duration) *LocalProvider {
	return &LocalProvider{
		byEmail: make(map[string]*account),
		byUID:   make(map[string]*account),
		secret:  []byte(secret),
		expiry:  expiry,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
}

// WithCost lowers the bcrypt cost, for tests.
func (p *LocalProvider) WithCost(cost int) *LocalProvider {
	p.cost = cost
	return p
}

func (p *LocalProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	key := strings.ToLower(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[key]; exists {
		return "", errors.Conflict("Email already in use")
	}

	acc := &account{
		uid:   uuid.New().String(),
		email: email,
		name:  displayName,
		hash:  hash,
	}
	p.byEmail[key] = acc
	p.byUID[acc.uid] = acc
	return acc.uid, nil
}

func (p *LocalProvider) DeleteUser(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.byUID[uid]
	if !ok {
		return errors.NotFound("Account", nil)
	}
	delete(p.byUID, uid)
	delete(p.byEmail, strings.ToLower(acc.email))
	return nil
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthToken, error) {
	p.mu.RLock()
	acc, ok := p.byEmail[strings.ToLower(email)]
	p.mu.RUnlock()

	if !ok {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	token, err := p.IssueToken(acc.uid, acc.email, acc.name)
	if err != nil {
		return nil, err
	}

	return &entity.AuthToken{
		UID:       acc.uid,
		IDToken:   token,
		ExpiresIn: int64(p.expiry.Seconds()),
	}, nil
}

// IssueToken signs an HS256 token for uid.
func (p *LocalProvider) IssueToken(uid, email, name string) (string, error) {
	now := p.now()
	claims := localClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    localIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *LocalProvider) VerifyToken(ctx context.Context, tokenStr string) (*entity.Identity, error) {
	claims := &localClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}

	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	if !claims.VerifyIssuer(localIssuer, true) || claims.Subject == "" {
		return nil, errors.Unauthorized("Invalid or expired token", nil)
	}

	return &entity.Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
