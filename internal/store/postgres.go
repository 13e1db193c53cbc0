package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/tweeter-backend/internal/models"
)

// PostgresStore handles account, post, and like persistence. The
// (post_id, account_id) primary key on likes is the concurrency
// primitive: a duplicate toggle loses the race at the constraint, not
// in application code.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables if they don't exist. Likes cascade away
// with either parent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id            UUID PRIMARY KEY,
			handle        VARCHAR(20)  UNIQUE NOT NULL,
			email         VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			bio           VARCHAR(160),
			avatar_url    TEXT,
			created_at    TIMESTAMPTZ  DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS posts (
			id         UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			body       VARCHAR(140) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_posts_account ON posts (account_id);
		CREATE TABLE IF NOT EXISTS likes (
			post_id    UUID NOT NULL REFERENCES posts(id)    ON DELETE CASCADE,
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (post_id, account_id)
		)
	`)
	return err
}

// IsUniqueViolation reports whether err is a SQLSTATE 23505 unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a SQLSTATE 23503 foreign
// key violation (e.g. liking a post that no longer exists).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// ── Accounts ─────────────────────────────────────────────────

func (s *PostgresStore) CreateAccount(ctx context.Context, id, handle, email, passwordHash string) (*models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, handle, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, handle, email, bio, avatar_url, created_at`,
		id, handle, email, passwordHash,
	).Scan(&a.ID, &a.Handle, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccountByID returns (nil, nil) when no such account exists — an
// unresolvable credential is an anonymous caller, not an error.
func (s *PostgresStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return s.getAccount(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getAccount(ctx, `WHERE email = $1`, email)
}

func (s *PostgresStore) GetAccountByHandle(ctx context.Context, handle string) (*models.Account, error) {
	return s.getAccount(ctx, `WHERE handle = $1`, handle)
}

func (s *PostgresStore) getAccount(ctx context.Context, where string, arg any) (*models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, handle, email, password_hash, bio, avatar_url, created_at
		 FROM accounts `+where, arg,
	).Scan(&a.ID, &a.Handle, &a.Email, &a.PasswordHash, &a.Bio, &a.AvatarURL, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAccountProfile sets bio and/or avatar URL; nil arguments leave
// the current value in place.
func (s *PostgresStore) UpdateAccountProfile(ctx context.Context, id string, bio, avatarURL *string) (*models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx,
		`UPDATE accounts
		 SET bio = COALESCE($2, bio), avatar_url = COALESCE($3, avatar_url)
		 WHERE id = $1
		 RETURNING id, handle, email, bio, avatar_url, created_at`,
		id, bio, avatarURL,
	).Scan(&a.ID, &a.Handle, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &a, nil
}

// ── Posts ────────────────────────────────────────────────────

func (s *PostgresStore) CreatePost(ctx context.Context, id, accountID, body string) (*models.Post, error) {
	var p models.Post
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (id, account_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, account_id, body, created_at`,
		id, accountID, body,
	).Scan(&p.ID, &p.AccountID, &p.Body, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &p, nil
}

// DeletePost removes a post only if accountID owns it. Ownership lives
// in the WHERE clause so "missing" and "not yours" are the same zero
// rows affected and existence never leaks to non-owners.
func (s *PostgresStore) DeletePost(ctx context.Context, postID, accountID string) (bool, error) {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM posts WHERE id = $1 AND account_id = $2`,
		postID, accountID,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// ── Likes ────────────────────────────────────────────────────

func (s *PostgresStore) LikeExists(ctx context.Context, postID, accountID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = $1 AND account_id = $2)`,
		postID, accountID,
	).Scan(&exists)
	return exists, err
}

// InsertLike surfaces constraint violations untouched; the toggle
// service interprets them.
func (s *PostgresStore) InsertLike(ctx context.Context, postID, accountID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO likes (post_id, account_id) VALUES ($1, $2)`,
		postID, accountID,
	)
	return err
}

func (s *PostgresStore) DeleteLike(ctx context.Context, postID, accountID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM likes WHERE post_id = $1 AND account_id = $2`,
		postID, accountID,
	)
	return err
}

func (s *PostgresStore) CountLikes(ctx context.Context, postID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM likes WHERE post_id = $1`, postID,
	).Scan(&count)
	return count, err
}

// ── Listings ─────────────────────────────────────────────────

const postViewColumns = `
	p.id, p.account_id, p.body, p.created_at, a.handle, a.avatar_url,
	COUNT(l.account_id)::int,
	COALESCE(BOOL_OR(l.account_id::text = $1), false)`

const postViewGroup = `
	GROUP BY p.id, p.account_id, p.body, p.created_at, a.handle, a.avatar_url
	ORDER BY p.created_at DESC
	LIMIT 50`

// ListFeed returns the newest posts with author info and like metadata
// for the viewer. viewerID may be empty for anonymous callers.
func (s *PostgresStore) ListFeed(ctx context.Context, viewerID string) ([]models.PostView, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+postViewColumns+`
		 FROM posts p
		 JOIN accounts a ON a.id = p.account_id
		 LEFT JOIN likes l ON l.post_id = p.id`+postViewGroup,
		viewerID,
	)
	if err != nil {
		return nil, err
	}
	return scanPostViews(rows)
}

// ListPostsByAccount returns one account's posts, newest first, with
// like metadata for the viewer.
func (s *PostgresStore) ListPostsByAccount(ctx context.Context, accountID, viewerID string) ([]models.PostView, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+postViewColumns+`
		 FROM posts p
		 JOIN accounts a ON a.id = p.account_id
		 LEFT JOIN likes l ON l.post_id = p.id
		 WHERE p.account_id = $2`+postViewGroup,
		viewerID, accountID,
	)
	if err != nil {
		return nil, err
	}
	return scanPostViews(rows)
}

func scanPostViews(rows pgx.Rows) ([]models.PostView, error) {
	defer rows.Close()
	views := []models.PostView{}
	for rows.Next() {
		var v models.PostView
		if err := rows.Scan(&v.ID, &v.AccountID, &v.Body, &v.CreatedAt,
			&v.Handle, &v.AvatarURL, &v.LikeCount, &v.IsLiked); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
