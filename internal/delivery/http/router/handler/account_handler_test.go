package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/delivery/http/middleware"
	"fintrack/internal/delivery/http/response"
	"fintrack/internal/delivery/http/validator"
	domainerrors "fintrack/internal/domain/errors"
	mockUC "fintrack/internal/mocks/usecase"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the handler, the validation gate and the error handler
// the same way the real server does, minus logging and recovery.
func newTestServer(t *testing.T) (*echo.Echo, *mockUC.MockAccountUsecase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := mockUC.NewMockAccountUsecase(t)
	h := NewAccountHandler(uc, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)

	return e, uc
}

// withUserID stands in for the auth middleware, which is covered by its own
// tests against real tokens.
func withUserID(userID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyUserID, userID)

			return next(c)
		}
	}
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestAccountHandler_Register_Created(t *testing.T) {
	e, uc := newTestServer(t)

	userID := uuid.New()
	uc.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Username:  "ada",
			Email:     "ada@example.com",
			Password:  "longenough",
		}).
		Return(&usecase.RegisterOutput{UserID: userID, Token: "signed-token"}, nil)

	rec := postJSON(e, "/auth/register", `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"username": "ada",
		"email": "ada@example.com",
		"password": "longenough"
	}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID.String(), data["user_id"])
	assert.Equal(t, "signed-token", data["token"])
}

func TestAccountHandler_Register_ValidationFailureListsAllFields(t *testing.T) {
	e, _ := newTestServer(t)

	// Invalid email and short password; the use case must not be reached,
	// and both problems must show up in one response.
	rec := postJSON(e, "/auth/register", `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"username": "ada",
		"email": "not-an-email",
		"password": "short"
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	require.Len(t, resp.Error.Fields, 2)

	fieldNames := []string{resp.Error.Fields[0].Field, resp.Error.Fields[1].Field}
	assert.ElementsMatch(t, []string{"email", "password"}, fieldNames)
}

func TestAccountHandler_Register_Conflict(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration failed"))

	rec := postJSON(e, "/auth/register", `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"username": "ada",
		"email": "ada@example.com",
		"password": "longenough"
	}`)

	assert.Equal(t, http.StatusConflict, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "USER_ALREADY_EXISTS", resp.Error.Code)

	// The conflict message must not reveal which identifier is taken.
	assert.NotContains(t, rec.Body.String(), "ada@example.com")
}

func TestAccountHandler_Register_MalformedJSON(t *testing.T) {
	e, _ := newTestServer(t)

	rec := postJSON(e, "/auth/register", `{"first_name": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountHandler_Login_OK(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{
			Identifier: "ada",
			Password:   "longenough",
		}).
		Return(&usecase.LoginOutput{Token: "signed-token"}, nil)

	rec := postJSON(e, "/auth/login", `{"identifier": "ada", "password": "longenough"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "signed-token", data["token"])
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	e, uc := newTestServer(t)

	uc.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed"))

	rec := postJSON(e, "/auth/login", `{"identifier": "ghost", "password": "whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
}

func TestAccountHandler_GetProfile_ReturnsRecord(t *testing.T) {
	e, uc := newTestServer(t)

	userID := uuid.New()
	uc.EXPECT().
		GetProfile(mock.Anything, userID).
		Return(&usecase.ProfileOutput{
			UserID:    userID,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Username:  "ada",
			Email:     "ada@example.com",
		}, nil)

	h := NewAccountHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.GET("/user/profile", h.GetProfile, withUserID(userID))

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID.String(), data["user_id"])
	assert.Equal(t, "Ada", data["first_name"])
	assert.Equal(t, "Lovelace", data["last_name"])
	assert.Equal(t, "ada", data["username"])
	assert.Equal(t, "ada@example.com", data["email"])

	// The credential never leaves the service, in any shape.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAccountHandler_GetProfile_UserGone(t *testing.T) {
	e, uc := newTestServer(t)

	userID := uuid.New()
	uc.EXPECT().
		GetProfile(mock.Anything, userID).
		Return(nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile lookup failed"))

	h := NewAccountHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.GET("/user/profile", h.GetProfile, withUserID(userID))

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "USER_NOT_FOUND", resp.Error.Code)
}

func TestAccountHandler_Login_MissingFields(t *testing.T) {
	e, _ := newTestServer(t)

	rec := postJSON(e, "/auth/login", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Error.Fields, 2)
}
