package middleware

import (
	"net/http"

	"github.com/ayush/tweeter-backend/internal/apperr"
	"github.com/ayush/tweeter-backend/internal/auth"
)

// RequireIdentity resolves the caller's credentials and rejects
// anonymous requests with 401. It is the single choke point for
// authentication; handlers behind it read the account from the context
// and never inspect credentials themselves.
func RequireIdentity(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				apperr.Write(w, apperr.Wrap(apperr.CodeUnavailable, "credential lookup failed", err))
				return
			}
			if account == nil {
				apperr.Write(w, apperr.Unauthenticated("authentication required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAccount(r.Context(), account)))
		})
	}
}

// OptionalIdentity resolves credentials when present but lets anonymous
// callers through. Used by read endpoints that annotate responses for
// the viewer (feed, profiles).
func OptionalIdentity(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				apperr.Write(w, apperr.Wrap(apperr.CodeUnavailable, "credential lookup failed", err))
				return
			}
			if account != nil {
				r = r.WithContext(auth.WithAccount(r.Context(), account))
			}
			next.ServeHTTP(w, r)
		})
	}
}
