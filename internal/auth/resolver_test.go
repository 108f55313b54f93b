package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestResolve_ValidToken(t *testing.T) {
	r := NewJWTResolver(testSecret)
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-123",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	identity, err := r.Resolve(context.Background(), tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestResolve_NoRoleClaim(t *testing.T) {
	r := NewJWTResolver(testSecret)
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	identity, err := r.Resolve(context.Background(), tokenStr)
	require.NoError(t, err)
	assert.Empty(t, identity.Role)
}

func TestResolve_WrongSecret(t *testing.T) {
	r := NewJWTResolver(testSecret)
	tokenStr := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-123"})

	_, err := r.Resolve(context.Background(), tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolve_ExpiredToken(t *testing.T) {
	r := NewJWTResolver(testSecret)
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := r.Resolve(context.Background(), tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolve_MissingSubject(t *testing.T) {
	r := NewJWTResolver(testSecret)
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := r.Resolve(context.Background(), tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolve_Garbage(t *testing.T) {
	r := NewJWTResolver(testSecret)

	_, err := r.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
