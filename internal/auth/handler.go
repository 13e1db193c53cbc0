package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/tweeter-backend/internal/apperr"
	"github.com/ayush/tweeter-backend/internal/metrics"
	"github.com/ayush/tweeter-backend/internal/models"
	"github.com/ayush/tweeter-backend/internal/store"
)

var handleRE = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	CreateAccount(ctx context.Context, id, handle, email, passwordHash string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// SessionManager is the session lifecycle the handlers drive.
type SessionManager interface {
	Create(ctx context.Context, accountID string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	accounts AccountStore
	sessions SessionManager
}

func NewHandler(accounts AccountStore, sessions SessionManager) *Handler {
	return &Handler{accounts: accounts, sessions: sessions}
}

// Signup creates a new account, opens a session, and returns the
// profile with its bearer token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}
	if err := validateSignup(&req); err != nil {
		apperr.Write(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Write(w, apperr.Internal("internal error"))
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), models.NewID(), req.Handle, req.Email, string(hashed))
	if err != nil {
		if store.IsUniqueViolation(err) {
			apperr.Write(w, apperr.Conflict("handle or email already taken"))
			return
		}
		apperr.Write(w, err)
		return
	}
	metrics.SignupsTotal.Inc()

	h.openSession(w, r, account, http.StatusCreated)
}

// Signin authenticates by email and password and opens a session. A
// missing account and a wrong password are deliberately the same 401.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.Validation("invalid request body"))
		return
	}

	account, err := h.accounts.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if account == nil {
		apperr.Write(w, apperr.Unauthenticated("invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		apperr.Write(w, apperr.Unauthenticated("invalid email or password"))
		return
	}
	metrics.SigninsTotal.Inc()

	h.openSession(w, r, account, http.StatusOK)
}

// Signout destroys the current session and clears the cookie.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("session delete error: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"signed out"}`))
}

// Me returns the acting account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account := AccountFrom(r.Context())
	if account == nil {
		apperr.Write(w, apperr.Unauthenticated("authentication required"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// openSession creates the server-side session, sets the cookie for web
// clients, and responds with the profile and bearer token.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request, account *models.Account, status int) {
	token, err := h.sessions.Create(r.Context(), account.ID)
	if err != nil {
		apperr.Write(w, apperr.Wrap(apperr.CodeUnavailable, "session creation failed", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.AuthResponse{Profile: account, Token: account.ID})
}

func validateSignup(req *models.SignupRequest) error {
	if !handleRE.MatchString(req.Handle) {
		return apperr.Validation("handle must be 3-20 letters, numbers, or underscores")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.Validation("invalid email address")
	}
	if len(req.Password) < 8 || len(req.Password) > 128 {
		return apperr.Validation("password must be 8-128 characters")
	}
	return nil
}
