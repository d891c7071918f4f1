// internal/api/handler/auth_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"centledger/internal/domain"
	"centledger/internal/util"
)

// MockAuthService is a mock implementation of auth.Service.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, name, password string) (*domain.Account, error) {
	args := m.Called(ctx, email, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.Account), args.Error(2)
}

func (m *MockAuthService) VerifyToken(tokenString string) (uuid.UUID, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newAuthRouter(svc *MockAuthService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAuthHandler(svc, logger)

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		account := domain.NewAccount("alice@example.com", "Alice", "hash")
		svc.On("Register", mock.Anything, "alice@example.com", "Alice", "s3cret-pass").
			Return(account, nil).Once()

		rec := postJSON(t, router, "/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "s3cret-pass",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got domain.Account
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, account.ID, got.ID)
		// PasswordHash is json:"-" and must never leave the server.
		assert.Empty(t, got.PasswordHash)
		assert.NotContains(t, rec.Body.String(), "hash")
	})

	t.Run("ShortPassword", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		rec := postJSON(t, router, "/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		rec := postJSON(t, router, "/auth/register", RegisterRequest{
			Email:    "not-an-email",
			Name:     "Alice",
			Password: "s3cret-pass",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		svc.On("Register", mock.Anything, "alice@example.com", "Alice", "s3cret-pass").
			Return(nil, util.ErrDuplicateEntry).Once()

		rec := postJSON(t, router, "/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Name:     "Alice",
			Password: "s3cret-pass",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		account := domain.NewAccount("alice@example.com", "Alice", "hash")
		svc.On("Login", mock.Anything, "alice@example.com", "s3cret-pass").
			Return("signed-token", account, nil).Once()

		rec := postJSON(t, router, "/auth/login", LoginRequest{
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			AccessToken string              `json:"access_token"`
			Account     domain.PartyProfile `json:"account"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "signed-token", got.AccessToken)
		assert.Equal(t, account.ID, got.Account.ID)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		svc.On("Login", mock.Anything, "alice@example.com", "wrong").
			Return("", nil, util.ErrUnauthorized).Once()

		rec := postJSON(t, router, "/auth/login", LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("EmptyBodyFields", func(t *testing.T) {
		svc := new(MockAuthService)
		router := newAuthRouter(svc)

		rec := postJSON(t, router, "/auth/login", LoginRequest{})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}
