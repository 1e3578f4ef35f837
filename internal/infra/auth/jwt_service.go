// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"fintrack/config"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret string
}

// NewJWTService is the constructor for jwtService.
// A missing signing key is a construction error, which aborts startup;
// it must never surface as a per-request failure.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt signing secret must be provided")
	}

	return &jwtService{secret: cfg.SecretKey.Access}, nil
}

// Issue creates a signed HS256 token bound to the given user.
// The ttl differs per call site (registration vs login), so it is a parameter.
func (s *jwtService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Validate checks the signature and expiry of a token string.
// Expired and otherwise-invalid tokens map to distinct domain errors so the
// delivery layer can answer with different statuses, without leaking
// signature internals to the client.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token past expiry")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token verification failed")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("unexpected token claims")
	}

	subject, err := mapClaims.GetSubject()
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("subject missing from token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid.WrapMessage("malformed subject in token")
	}

	claims := &service.Claims{UserID: userID}
	if exp, expErr := mapClaims.GetExpirationTime(); expErr == nil && exp != nil {
		claims.ExpiresAt = exp
	}
	if iat, iatErr := mapClaims.GetIssuedAt(); iatErr == nil && iat != nil {
		claims.IssuedAt = iat
	}

	return claims, nil
}
