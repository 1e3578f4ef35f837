package middleware

import (
	"strings"

	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is the echo.Context key under which the authenticated
// subject's id is stored for downstream handlers.
const ContextKeyUserID = "userID"

// AuthMiddleware provides middleware for bearer-token authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token on protected routes.
// A missing or malformed Authorization header answers 401; a token that fails
// verification answers 403 (invalid and expired are distinct error codes).
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrTokenMissing.WrapMessage("authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrTokenMissing.WrapMessage("authorization header must carry a bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			// Already a domain token error (invalid or expired).
			return err
		}

		c.Set(ContextKeyUserID, claims.UserID)

		return next(c)
	}
}
