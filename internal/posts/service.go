package posts

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ayush/tweeter-backend/internal/apperr"
	"github.com/ayush/tweeter-backend/internal/metrics"
	"github.com/ayush/tweeter-backend/internal/models"
	"github.com/ayush/tweeter-backend/internal/store"
)

const maxPostLen = 140

// Store defines the post and like persistence the service needs.
type Store interface {
	CreatePost(ctx context.Context, id, accountID, body string) (*models.Post, error)
	DeletePost(ctx context.Context, postID, accountID string) (bool, error)
	LikeExists(ctx context.Context, postID, accountID string) (bool, error)
	InsertLike(ctx context.Context, postID, accountID string) error
	DeleteLike(ctx context.Context, postID, accountID string) error
	CountLikes(ctx context.Context, postID string) (int, error)
	ListFeed(ctx context.Context, viewerID string) ([]models.PostView, error)
	ListPostsByAccount(ctx context.Context, accountID, viewerID string) ([]models.PostView, error)
}

// Service implements post creation/deletion and the like toggle.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates and inserts a new post.
func (s *Service) Create(ctx context.Context, accountID, body string) (*models.Post, error) {
	n := utf8.RuneCountInString(body)
	if n == 0 {
		return nil, apperr.Validation("post cannot be empty")
	}
	if n > maxPostLen {
		return nil, apperr.Validation("post must be 140 characters or less")
	}
	post, err := s.store.CreatePost(ctx, models.NewID(), accountID, body)
	if err != nil {
		return nil, err
	}
	metrics.PostsCreatedTotal.Inc()
	return post, nil
}

// Delete removes a post owned by accountID. A missing post and a post
// owned by someone else are both NotFound so existence never leaks.
func (s *Service) Delete(ctx context.Context, postID, accountID string) error {
	if !validPostID(postID) {
		return apperr.NotFound("post not found")
	}
	deleted, err := s.store.DeletePost(ctx, postID, accountID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("post not found")
	}
	return nil
}

// ToggleLike flips the like relation for (postID, accountID) and
// returns the state after the flip with a count re-read from the store.
//
// Two concurrent toggles for the same pair can both observe "unliked";
// the second insert then loses at the (post_id, account_id) uniqueness
// constraint. That violation is the terminal, correct answer — the row
// exists, which is the state this call wanted — so it folds into
// liked=true rather than surfacing. No retry, no application lock.
func (s *Service) ToggleLike(ctx context.Context, postID, accountID string) (*models.LikeResult, error) {
	if !validPostID(postID) {
		return nil, apperr.NotFound("post not found")
	}
	exists, err := s.store.LikeExists(ctx, postID, accountID)
	if err != nil {
		return nil, err
	}

	liked := !exists
	if exists {
		if err := s.store.DeleteLike(ctx, postID, accountID); err != nil {
			return nil, err
		}
	} else {
		switch err := s.store.InsertLike(ctx, postID, accountID); {
		case err == nil:
		case store.IsUniqueViolation(err):
			// Lost the race with an identical toggle; already liked.
		case store.IsForeignKeyViolation(err):
			return nil, apperr.NotFound("post not found")
		default:
			return nil, err
		}
	}

	count, err := s.store.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	direction := "unliked"
	if liked {
		direction = "liked"
	}
	metrics.LikeTogglesTotal.WithLabelValues(direction).Inc()

	return &models.LikeResult{Liked: liked, LikeCount: count}, nil
}

// Feed returns the newest posts annotated for the viewer. viewerID may
// be empty.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]models.PostView, error) {
	return s.store.ListFeed(ctx, viewerID)
}

// ByAccount returns one account's posts annotated for the viewer.
func (s *Service) ByAccount(ctx context.Context, accountID, viewerID string) ([]models.PostView, error) {
	return s.store.ListPostsByAccount(ctx, accountID, viewerID)
}

// validPostID rejects URL ids that are not uuid-shaped: they can never
// match a row, and the uuid-typed column would fail the query instead
// of reporting zero rows.
func validPostID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
