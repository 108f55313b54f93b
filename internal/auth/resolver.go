package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what the rest of the system knows about a caller: a stable
// user id and a role claim. Admin-only endpoints require RoleAdmin.
type Identity struct {
	UserID string
	Role   string
}

// Resolver maps an opaque bearer credential to an Identity or fails.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// JWTResolver verifies HMAC-signed bearer tokens carrying a "sub" claim and
// an optional "role" claim.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

func (r *JWTResolver) Resolve(_ context.Context, tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}

	role, _ := claims["role"].(string)

	return &Identity{UserID: sub, Role: role}, nil
}
