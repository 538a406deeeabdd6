package ports

import (
	"context"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Reads populate
// Post.Author.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// ListRecent returns every post, newest first.
	ListRecent(ctx context.Context) ([]*domain.Post, error)
	// ListByUser returns the posts owned by userID, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Post, error)
	// Delete removes the post; its likes and comments go with it.
	Delete(ctx context.Context, id int64) error
}

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	// Create yields domain.ErrConflict when the (user, post) pair already exists.
	Create(ctx context.Context, like *domain.Like) (*domain.Like, error)
	FindByUserAndPost(ctx context.Context, userID, postID int64) (*domain.Like, error)
	Delete(ctx context.Context, id int64) error
	CountByPost(ctx context.Context, postID int64) (int64, error)
	// CountByPosts returns like counts keyed by post ID. Posts without likes
	// are absent from the map.
	CountByPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error)
	// LikedPostIDs reports which of postIDs userID currently likes.
	LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

// CommentRepository defines persistence operations for comments. Reads
// populate Comment.Author.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	// ListByPost returns the comments on postID, newest first.
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
	// ListByPosts groups the comments on postIDs by post, newest first.
	ListByPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error)
}
