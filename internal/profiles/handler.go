package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/tweeter-backend/internal/apperr"
	"github.com/ayush/tweeter-backend/internal/auth"
	"github.com/ayush/tweeter-backend/internal/models"
)

const (
	maxBioLen    = 160
	maxAvatarLen = 5 << 20 // 5 MiB
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// AccountStore defines the account persistence the handlers need.
type AccountStore interface {
	GetAccountByHandle(ctx context.Context, handle string) (*models.Account, error)
	UpdateAccountProfile(ctx context.Context, id string, bio, avatarURL *string) (*models.Account, error)
}

// PostLister annotates an account's posts for the viewer.
type PostLister interface {
	ByAccount(ctx context.Context, accountID, viewerID string) ([]models.PostView, error)
}

// FileStore defines the interface for avatar storage.
type FileStore interface {
	UploadAvatar(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Handler holds profile HTTP handlers.
type Handler struct {
	accounts AccountStore
	posts    PostLister
	avatars  FileStore
}

func NewHandler(accounts AccountStore, posts PostLister, avatars FileStore) *Handler {
	return &Handler{accounts: accounts, posts: posts, avatars: avatars}
}

// ProfileResponse is the body for GET /profiles/{handle}.
type ProfileResponse struct {
	Profile *models.Account   `json:"profile"`
	Posts   []models.PostView `json:"posts"`
}

// Get handles GET /profiles/{handle}. Identity is optional; when
// present, the posts carry is_liked relative to the caller.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccountByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if account == nil {
		apperr.Write(w, apperr.NotFound("profile not found"))
		return
	}

	viewerID := ""
	if viewer := auth.AccountFrom(r.Context()); viewer != nil {
		viewerID = viewer.ID
	}
	views, err := h.posts.ByAccount(r.Context(), account.ID, viewerID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Profile: account, Posts: views})
}

// Update handles PUT /profiles: a multipart form with an optional bio
// field and an optional avatar image. Only the acting account's own
// profile is reachable here.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	acting := auth.AccountFrom(r.Context())

	if err := r.ParseMultipartForm(maxAvatarLen); err != nil {
		apperr.Write(w, apperr.Validation("invalid multipart form"))
		return
	}

	var bio *string
	if values, ok := r.MultipartForm.Value["bio"]; ok && len(values) > 0 {
		if utf8.RuneCountInString(values[0]) > maxBioLen {
			apperr.Write(w, apperr.Validation("bio must be 160 characters or less"))
			return
		}
		bio = &values[0]
	}

	var avatarURL *string
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxAvatarLen))
		if err != nil {
			apperr.Write(w, apperr.Validation("could not read avatar"))
			return
		}
		key := fmt.Sprintf("%s/avatar", acting.ID)
		url, err := h.avatars.UploadAvatar(r.Context(), key, data, header.Header.Get("Content-Type"))
		if err != nil {
			apperr.Write(w, apperr.Wrap(apperr.CodeUnavailable, "avatar upload failed", err))
			return
		}
		avatarURL = &url
	}

	updated, err := h.accounts.UpdateAccountProfile(r.Context(), acting.ID, bio, avatarURL)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
