// Package auth issues and verifies the bearer tokens that carry a session's
// user id, and threads that id through request contexts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrUnauthorized = errors.New("unauthorized")

// Claims are the JWT claims of a session token. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and parses HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken returns a signed token for userID valid for the issuer's TTL.
func (i *Issuer) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("GenerateToken: empty user id")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return token, nil
}

// ParseToken verifies raw and returns its user id. Every failure wraps
// ErrUnauthorized.
func (i *Issuer) ParseToken(raw string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("ParseToken: %v: %w", err, ErrUnauthorized)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("ParseToken: invalid claims: %w", ErrUnauthorized)
	}
	return claims.Subject, nil
}
