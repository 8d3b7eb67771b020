package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	identityerrors "go-traindesk/internal/identity/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testProjectID = "traindesk-test"

type staticKeyProvider struct {
	keys map[string]*rsa.PublicKey
}

func (p *staticKeyProvider) Get(_ context.Context, kid string) (*rsa.PublicKey, error) {
	key, ok := p.keys[kid]
	if !ok {
		return nil, identityerrors.ErrInvalidToken
	}
	return key, nil
}

func newTestVerifier(t *testing.T) (*firebaseVerifier, *rsa.PrivateKey) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	v := &firebaseVerifier{
		projectID: testProjectID,
		keys:      &staticKeyProvider{keys: map[string]*rsa.PublicKey{"test-kid": &priv.PublicKey}},
		logger:    zap.NewNop(),
	}
	return v, priv
}

func signToken(t *testing.T, priv *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            "https://securetoken.google.com/" + testProjectID,
		"aud":            testProjectID,
		"sub":            "firebase-uid-1",
		"email":          "admin@example.com",
		"email_verified": true,
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		token := signToken(t, priv, "test-kid", validClaims())

		id, err := v.Verify(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "firebase-uid-1", id.SubjectID)
		assert.Equal(t, "admin@example.com", id.Email)
		assert.True(t, id.EmailVerified)
	})

	t.Run("success - unverified email claim is carried as unverified", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		claims["email_verified"] = false
		token := signToken(t, priv, "test-kid", claims)

		id, err := v.Verify(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "admin@example.com", id.Email)
		assert.False(t, id.EmailVerified)
	})

	t.Run("success - missing email_verified claim reads as unverified", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		delete(claims, "email_verified")
		token := signToken(t, priv, "test-kid", claims)

		id, err := v.Verify(ctx, token)

		assert.NoError(t, err)
		assert.False(t, id.EmailVerified)
	})

	t.Run("success - token without email", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		delete(claims, "email")
		token := signToken(t, priv, "test-kid", claims)

		id, err := v.Verify(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "firebase-uid-1", id.SubjectID)
		assert.Empty(t, id.Email)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		token := signToken(t, priv, "test-kid", claims)

		_, err := v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		claims["iss"] = "https://securetoken.google.com/other-project"
		token := signToken(t, priv, "test-kid", claims)

		_, err := v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("wrong audience rejected", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		claims["aud"] = "other-project"
		token := signToken(t, priv, "test-kid", claims)

		_, err := v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("missing exp rejected", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		delete(claims, "exp")
		token := signToken(t, priv, "test-kid", claims)

		_, err := v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("missing sub rejected", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		claims := validClaims()
		delete(claims, "sub")
		token := signToken(t, priv, "test-kid", claims)

		_, err := v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("unknown kid rejected", func(t *testing.T) {
		v, priv := newTestVerifier(t)
		token := signToken(t, priv, "unknown-kid", validClaims())

		_, err := v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("signature from another key rejected", func(t *testing.T) {
		v, _ := newTestVerifier(t)
		otherPriv, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		token := signToken(t, otherPriv, "test-kid", validClaims())

		_, err = v.Verify(ctx, token)

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		v, _ := newTestVerifier(t)

		_, err := v.Verify(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})
}
