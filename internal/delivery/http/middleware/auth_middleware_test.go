package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/service"
	"fintrack/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, secret string) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = secret

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return tokenSvc
}

// runAuthenticated sends a request with the given Authorization header through
// the middleware and returns the middleware error plus the user id the
// protected handler observed, if it ran at all.
func runAuthenticated(t *testing.T, tokenSvc service.TokenService, authHeader string) (error, any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUserID any
	handler := NewAuthMiddleware(tokenSvc).Authenticate(func(c echo.Context) error {
		seenUserID = c.Get(ContextKeyUserID)

		return c.NoContent(http.StatusOK)
	})

	return handler(c), seenUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")
	userID := uuid.New()

	token, err := tokenSvc.Issue(userID, time.Hour)
	require.NoError(t, err)

	err, seenUserID := runAuthenticated(t, tokenSvc, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, userID, seenUserID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")

	err, seenUserID := runAuthenticated(t, tokenSvc, "")

	require.Error(t, err)
	assert.Nil(t, seenUserID)
	assert.ErrorIs(t, err, domainerrors.ErrTokenMissing)
}

func TestAuthMiddleware_NotBearerScheme(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")

	err, seenUserID := runAuthenticated(t, tokenSvc, "Basic dXNlcjpwYXNz")

	require.Error(t, err)
	assert.Nil(t, seenUserID)
	assert.ErrorIs(t, err, domainerrors.ErrTokenMissing)
}

func TestAuthMiddleware_EmptyBearerToken(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")

	err, _ := runAuthenticated(t, tokenSvc, "Bearer ")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTokenMissing)
}

func TestAuthMiddleware_TokenSignedWithDifferentSecret(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")
	otherSvc := newTestTokenService(t, "another-secret")
	userID := uuid.New()

	token, err := otherSvc.Issue(userID, time.Hour)
	require.NoError(t, err)

	err, seenUserID := runAuthenticated(t, tokenSvc, "Bearer "+token)

	require.Error(t, err)
	assert.Nil(t, seenUserID)
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")
	userID := uuid.New()

	token, err := tokenSvc.Issue(userID, -time.Minute)
	require.NoError(t, err)

	err, seenUserID := runAuthenticated(t, tokenSvc, "Bearer "+token)

	require.Error(t, err)
	assert.Nil(t, seenUserID)

	// Expired is a distinct failure from invalid.
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
	assert.NotErrorIs(t, err, domainerrors.ErrTokenInvalid)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	tokenSvc := newTestTokenService(t, "test-secret")

	err, _ := runAuthenticated(t, tokenSvc, "Bearer not.a.jwt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}
