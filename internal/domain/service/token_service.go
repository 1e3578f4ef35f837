package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by the bearer tokens.
type Claims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a signed token bound to the given user, expiring after ttl.
	// Registration and login use different ttl values, so it is a per-call parameter.
	Issue(userID uuid.UUID, ttl time.Duration) (string, error)

	// Validate checks the signature and expiry of a token string.
	// It fails with domainerrors.ErrTokenExpired when the token is past its
	// expiry, and domainerrors.ErrTokenInvalid for any other defect; the two
	// are distinguishable to the caller but never expose signature internals.
	Validate(tokenString string) (*Claims, error)
}
