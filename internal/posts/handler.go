package posts

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/tweeter-backend/internal/apperr"
	"github.com/ayush/tweeter-backend/internal/auth"
	"github.com/ayush/tweeter-backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds post HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /posts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFrom(r.Context())

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	post, err := h.svc.Create(r.Context(), account.ID, req.Body)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Like handles POST /posts/{id}/like.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFrom(r.Context())

	result, err := h.svc.ToggleLike(r.Context(), chi.URLParam(r, "id"), account.ID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /posts/{id} and the POST override used by
// plain HTML forms (_method=DELETE).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.FormValue("_method") != "DELETE" {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	account := auth.AccountFrom(r.Context())
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), account.ID); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Feed handles GET /posts. Identity is optional; anonymous viewers get
// is_liked=false everywhere.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if account := auth.AccountFrom(r.Context()); account != nil {
		viewerID = account.ID
	}

	views, err := h.svc.Feed(r.Context(), viewerID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
