package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/tweeter-backend/internal/auth"
	"github.com/ayush/tweeter-backend/internal/models"
)

const aliceID = "0192d6e1-6a2b-7c3d-8e4f-5a6b7c8d9e0f"

type stubAccounts struct {
	byID map[string]*models.Account
}

func (s *stubAccounts) GetAccountByID(_ context.Context, id string) (*models.Account, error) {
	return s.byID[id], nil
}

type stubSessions struct{}

func (stubSessions) Get(context.Context, string) (string, error) { return "", nil }

func testResolver(alice *models.Account) *auth.Resolver {
	return auth.NewResolver(&stubAccounts{byID: map[string]*models.Account{alice.ID: alice}}, stubSessions{})
}

func TestRequireIdentity(t *testing.T) {
	alice := &models.Account{ID: aliceID, Handle: "alice"}
	var seen *models.Account
	handler := RequireIdentity(testResolver(alice))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.AccountFrom(r.Context())
	}))

	t.Run("bearer resolves", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil)
		req.Header.Set("Authorization", "Bearer "+alice.ID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "alice", seen.Handle)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})
}

func TestOptionalIdentity(t *testing.T) {
	alice := &models.Account{ID: aliceID, Handle: "alice"}
	var seen *models.Account
	var called bool
	handler := OptionalIdentity(testResolver(alice))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen = auth.AccountFrom(r.Context())
	}))

	t.Run("anonymous passes through", func(t *testing.T) {
		called, seen = false, nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Nil(t, seen)
	})

	t.Run("identity injected when present", func(t *testing.T) {
		called, seen = false, nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
		req.Header.Set("Authorization", "Bearer "+alice.ID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.True(t, called)
		require.NotNil(t, seen)
		assert.Equal(t, alice.ID, seen.ID)
	})
}
