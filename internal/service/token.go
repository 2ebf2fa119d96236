package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"alcyxob/gym-admin/internal/domain"
)

const tokenIssuer = "gym-admin"

var ErrTokenGeneration = errors.New("failed to generate authentication token")

// TokenClaims is the payload of operator and client session tokens.
type TokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	expiration time.Duration
	now        Clock
}

// NewTokenIssuer panics on an empty secret, which is a configuration error.
func NewTokenIssuer(secret string, expiration time.Duration, clock Clock) *TokenIssuer {
	if secret == "" {
		panic("JWT secret cannot be empty")
	}
	if expiration <= 0 {
		expiration = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), expiration: expiration, now: clockOrDefault(clock)}
}

// Expiration is the lifetime of issued tokens.
func (t *TokenIssuer) Expiration() time.Duration { return t.expiration }

// Issue creates a signed token for subject with the given role.
func (t *TokenIssuer) Issue(subject string, role domain.Role) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.expiration)
	claims := &TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, ErrTokenGeneration
	}
	return signed, expires, nil
}

// Parse verifies a token and checks that it carries the expected role.
func (t *TokenIssuer) Parse(tokenString string, role domain.Role) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrUnauthenticated
	}
	if claims.Role != role {
		return nil, ErrAccessDenied
	}
	return claims, nil
}
