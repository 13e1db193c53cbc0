package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayush/tweeter-backend/internal/models"
)

// AccountGetter is the subset of account persistence the resolver needs.
// Lookups return (nil, nil) when no account matches.
type AccountGetter interface {
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
}

// SessionReader resolves a session token to an account id, or "" when
// the session is missing or expired.
type SessionReader interface {
	Get(ctx context.Context, token string) (string, error)
}

// Resolver determines the acting identity for a request. It is the only
// component that parses credentials; every handler that needs an
// identity goes through it (via the middleware package).
//
// Bearer tokens are account ids. That means no expiry and no
// revocation independent of the account; replacing them with opaque
// tokens in their own table is the known hardening step.
type Resolver struct {
	accounts AccountGetter
	sessions SessionReader
}

func NewResolver(accounts AccountGetter, sessions SessionReader) *Resolver {
	return &Resolver{accounts: accounts, sessions: sessions}
}

// Resolve returns the acting account, or nil for an anonymous caller.
// A bearer credential is checked first; if one was presented but
// resolves to no account the caller stays anonymous — there is no
// fallback to the cookie session. Only store failures are errors.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*models.Account, error) {
	if header := req.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		// Account ids are uuids. A token that is not even id-shaped can
		// never resolve and must not reach the uuid-typed column, where
		// it would fail the query instead of yielding "no identity".
		if _, err := uuid.Parse(token); err != nil {
			return nil, nil
		}
		return r.accounts.GetAccountByID(ctx, token)
	}

	cookie, err := req.Cookie(SessionCookie)
	if err != nil {
		return nil, nil
	}
	accountID, err := r.sessions.Get(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, nil
	}
	return r.accounts.GetAccountByID(ctx, accountID)
}
