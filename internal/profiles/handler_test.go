package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
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

type fakeAccounts struct {
	byHandle map[string]*models.Account
}

func (f *fakeAccounts) GetAccountByHandle(_ context.Context, handle string) (*models.Account, error) {
	return f.byHandle[handle], nil
}

func (f *fakeAccounts) UpdateAccountProfile(_ context.Context, id string, bio, avatarURL *string) (*models.Account, error) {
	for _, a := range f.byHandle {
		if a.ID != id {
			continue
		}
		if bio != nil {
			a.Bio = bio
		}
		if avatarURL != nil {
			a.AvatarURL = avatarURL
		}
		return a, nil
	}
	return nil, nil
}

type fakeLister struct {
	views    []models.PostView
	viewerID string
}

func (f *fakeLister) ByAccount(_ context.Context, _, viewerID string) ([]models.PostView, error) {
	f.viewerID = viewerID
	return f.views, nil
}

type fakeAvatars struct {
	key string
}

func (f *fakeAvatars) UploadAvatar(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.key = key
	return "http://minio:9000/tweeter-avatars/" + key, nil
}

func newFixture() (*fakeAccounts, *fakeLister, *fakeAvatars, *Handler) {
	alice := &models.Account{ID: "acc-alice", Handle: "alice"}
	accounts := &fakeAccounts{byHandle: map[string]*models.Account{"alice": alice}}
	lister := &fakeLister{views: []models.PostView{{ID: "post-1", Handle: "alice", LikeCount: 1, IsLiked: true}}}
	avatars := &fakeAvatars{}
	return accounts, lister, avatars, NewHandler(accounts, lister, avatars)
}

func getProfile(h *Handler, handle string, viewer *models.Account) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/v1/profiles/{handle}", h.Get)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+handle, nil)
	if viewer != nil {
		req = req.WithContext(auth.WithAccount(req.Context(), viewer))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetProfile(t *testing.T) {
	_, lister, _, h := newFixture()

	rec := getProfile(h, "alice", &models.Account{ID: "acc-bob", Handle: "bob"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp.Profile.Handle)
	require.Len(t, resp.Posts, 1)
	assert.True(t, resp.Posts[0].IsLiked)
	assert.Equal(t, "acc-bob", lister.viewerID)
}

func TestGetProfileAnonymousViewer(t *testing.T) {
	_, lister, _, h := newFixture()

	rec := getProfile(h, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", lister.viewerID)
}

func TestGetProfileNotFound(t *testing.T) {
	_, _, _, h := newFixture()

	rec := getProfile(h, "nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartBody(t *testing.T, bio string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if bio != "" {
		require.NoError(t, w.WriteField("bio", bio))
	}
	if avatar != nil {
		fw, err := w.CreateFormFile("avatar", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func putProfile(h *Handler, acting *models.Account, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/profiles", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithAccount(req.Context(), acting))
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	return rec
}

func TestUpdateProfile(t *testing.T) {
	accounts, _, avatars, h := newFixture()
	alice := accounts.byHandle["alice"]

	body, contentType := multipartBody(t, "hi, i'm alice", []byte{0x89, 'P', 'N', 'G'})
	rec := putProfile(h, alice, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.Bio)
	assert.Equal(t, "hi, i'm alice", *got.Bio)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, "http://minio:9000/tweeter-avatars/acc-alice/avatar", *got.AvatarURL)
	assert.Equal(t, "acc-alice/avatar", avatars.key)
}

func TestUpdateProfileBioOnly(t *testing.T) {
	accounts, _, avatars, h := newFixture()
	alice := accounts.byHandle["alice"]
	existing := "http://minio:9000/tweeter-avatars/acc-alice/avatar"
	alice.AvatarURL = &existing

	body, contentType := multipartBody(t, "new bio", nil)
	rec := putProfile(h, alice, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, existing, *got.AvatarURL) // untouched
	assert.Empty(t, avatars.key)
}

func TestUpdateProfileBioTooLong(t *testing.T) {
	accounts, _, _, h := newFixture()

	body, contentType := multipartBody(t, strings.Repeat("x", 161), nil)
	rec := putProfile(h, accounts.byHandle["alice"], body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
