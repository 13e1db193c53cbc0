package posts

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/tweeter-backend/internal/auth"
	"github.com/ayush/tweeter-backend/internal/models"
)

func postForm(t *testing.T, h *Handler, path, form string, acting *models.Account) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/v1/posts/{id}", h.Delete)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(auth.WithAccount(req.Context(), acting))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDeleteMethodOverride(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	h := NewHandler(svc)
	owner := &models.Account{ID: models.NewID(), Handle: "alice"}
	post := mustPost(t, svc, owner.ID, "hello")

	rec := postForm(t, h, "/api/v1/posts/"+post.ID, "_method=DELETE", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.posts, post.ID)
}

func TestDeleteMethodOverrideRejected(t *testing.T) {
	svc := NewService(newMemStore())
	h := NewHandler(svc)
	owner := &models.Account{ID: models.NewID(), Handle: "alice"}
	post := mustPost(t, svc, owner.ID, "hello")

	rec := postForm(t, h, "/api/v1/posts/"+post.ID, "_method=PATCH", owner)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{"))
}
