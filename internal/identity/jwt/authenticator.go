// Package jwt implements the identity token issuer using HMAC-signed JWTs.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
)

// Config contains JWT authenticator configuration.
type Config struct {
	SecretKey string

	// TokenDuration of zero issues tokens without an expiry claim. This is
	// the default and matches the deployed behavior; set a duration to make
	// tokens expire.
	TokenDuration time.Duration
}

// Authenticator issues and verifies HS256 tokens bound to a user id.
type Authenticator struct {
	secret   []byte
	duration time.Duration
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.SecretKey),
		duration: cfg.TokenDuration,
	}
}

// Issue creates a signed token with the user id as subject.
func (a *Authenticator) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:  user.ID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if a.duration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(a.duration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the bound user id.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("missing subject claim")
	}
	return claims.Subject, nil
}
