package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL matches the 30-day cookie expiry.
	SessionTTL    = 30 * 24 * time.Hour
	SessionCookie = "tweeter_session"
)

// SessionStore wraps Redis for session management. Tokens are opaque
// random uuids resolved server-side, so the cookie carries no signed
// payload to verify — the lookup is the verification.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create stores a new session mapping token -> accountID.
func (s *SessionStore) Create(ctx context.Context, accountID string) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+token, accountID, SessionTTL).Err()
	return token, err
}

// Get returns the accountID for a session, or "" if not found / expired.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}
