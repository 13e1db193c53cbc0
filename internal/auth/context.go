package auth

import (
	"context"

	"github.com/ayush/tweeter-backend/internal/models"
)

type accountKey struct{}

// WithAccount returns a context carrying the resolved acting account.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFrom returns the acting account from the context, or nil for
// anonymous callers.
func AccountFrom(ctx context.Context) *models.Account {
	account, _ := ctx.Value(accountKey{}).(*models.Account)
	return account
}
