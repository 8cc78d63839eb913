package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"valomarket/pkg/errors"
)

func newTestProvider() *LocalProvider {
	return NewLocalProvider("test-secret", time.Hour).WithCost(bcrypt.MinCost)
}

func TestLocalProviderSignInRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	uid, err := p.CreateUser(ctx, "Alice@Example.com", "secret1", "alice")
	require.NoError(t, err)

	tok, err := p.SignInWithPassword(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uid, tok.UID)
	assert.Equal(t, int64(3600), tok.ExpiresIn)

	ident, err := p.VerifyToken(ctx, tok.IDToken)
	require.NoError(t, err)
	assert.Equal(t, uid, ident.UID)
	assert.Equal(t, "Alice@Example.com", ident.Email)
	assert.Equal(t, "alice", ident.Name)
}

func TestLocalProviderRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	_, err := p.CreateUser(ctx, "bob@example.com", "secret1", "bob")
	require.NoError(t, err)

	_, err = p.SignInWithPassword(ctx, "bob@example.com", "wrong")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = p.SignInWithPassword(ctx, "nobody@example.com", "secret1")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = p.CreateUser(ctx, "BOB@example.com", "another", "bob2")
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestLocalProviderVerifyToken(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	t.Run("expired", func(t *testing.T) {
		p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { p.now = time.Now }()

		token, err := p.IssueToken("u1", "", "")
		require.NoError(t, err)

		p.now = time.Now
		_, err = p.VerifyToken(ctx, token)
		assert.True(t, errors.Is(err, errors.CodeUnauthorized))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewLocalProvider("other-secret", time.Hour)
		token, err := other.IssueToken("u1", "", "")
		require.NoError(t, err)

		_, err = p.VerifyToken(ctx, token)
		assert.True(t, errors.Is(err, errors.CodeUnauthorized))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := p.VerifyToken(ctx, "not-a-token")
		assert.True(t, errors.Is(err, errors.CodeUnauthorized))
	})
}

func TestLocalProviderDeleteUser(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	uid, err := p.CreateUser(ctx, "carol@example.com", "secret1", "carol")
	require.NoError(t, err)
	require.NoError(t, p.DeleteUser(ctx, uid))

	_, err = p.SignInWithPassword(ctx, "carol@example.com", "secret1")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = p.CreateUser(ctx, "carol@example.com", "secret1", "carol")
	assert.NoError(t, err)
}

func TestExternalProviderRefusesPasswordAccounts(t *testing.T) {
	ctx := context.Background()
	p := ExternalProvider{}

	_, err := p.CreateUser(ctx, "a@example.com", "secret1", "a")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = p.SignInWithPassword(ctx, "a@example.com", "secret1")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}
