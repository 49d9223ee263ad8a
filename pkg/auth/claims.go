package auth

import (
	"context"
	"errors"
	"time"

	"safari/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSubject    = errors.New("token does not identify a user")
	ErrUnknownRole  = errors.New("token carries an unknown role")
)

// Claims accepts both `user_id` and the registered `sub` claim as the user
// identifier. `user_id` wins when both are present.
type Claims struct {
	UserID string     `json:"user_id,omitempty"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type Principal struct {
	ID   string
	Role model.Role
}

func (p Principal) IsStaff() bool {
	return p.Role.IsStaff()
}

func knownRole(role model.Role) bool {
	switch role {
	case model.RoleCustomer, model.RoleDriver, model.RoleGuide, model.RoleAdmin, model.RoleStaff:
		return true
	}
	return false
}

// ParseToken verifies an HS256 token and returns the principal it names.
func ParseToken(secret []byte, tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, ErrMissingToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return Principal{}, ErrNoSubject
	}
	if !knownRole(claims.Role) {
		return Principal{}, ErrUnknownRole
	}
	return Principal{ID: id, Role: claims.Role}, nil
}

// IssueToken signs a token for userID. Token issuance belongs to the identity
// service; this is used by tooling and tests.
func IssueToken(secret []byte, userID string, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
