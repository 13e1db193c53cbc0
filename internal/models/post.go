package models

import "time"

// Post represents a row in the PostgreSQL posts table. Posts are
// create/delete only; the body is never mutated after insert.
type Post struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is a post joined with its author and like metadata relative
// to the viewing account.
type PostView struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Handle    string    `json:"handle"`
	AvatarURL *string   `json:"avatar_url"`
	LikeCount int       `json:"like_count"`
	IsLiked   bool      `json:"is_liked"`
}

// LikeResult is the outcome of a like toggle: the state after the flip
// and the count re-read from the store after the mutation.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// CreatePostRequest is the JSON body for POST /api/v1/posts.
type CreatePostRequest struct {
	Body string `json:"body"`
}
