package ports

import (
	"context"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/view"
)

// CreatePostInput carries all data needed to publish a post.
type CreatePostInput struct {
	UserID  int64
	Content string
	Image   *ImageUpload // optional
	// IdempotencyKey is optional; replays with the same key return the
	// originally created post.
	IdempotencyKey string
}

// CreatePostResult is returned by CreatePost.
type CreatePostResult struct {
	Post *domain.Post
	// AlreadyExisted is true when the idempotency key matched an earlier post.
	AlreadyExisted bool
}

// ToggleLikeResult describes the state after a like toggle.
type ToggleLikeResult struct {
	// Like is nil when the toggle removed an existing like.
	Like  *domain.Like
	Likes int64
}

// PostService defines the post, like and comment use cases.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*CreatePostResult, error)
	ListPosts(ctx context.Context, viewerID int64) ([]view.Post, error)
	ListUserPosts(ctx context.Context, userID, viewerID int64) ([]view.Post, error)
	DeletePost(ctx context.Context, postID, requesterID int64) error
	ToggleLike(ctx context.Context, postID, userID int64) (*ToggleLikeResult, error)
	AddComment(ctx context.Context, postID, userID int64, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]*domain.Comment, error)
}
