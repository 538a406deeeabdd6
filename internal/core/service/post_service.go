package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/core/view"
	"github.com/socialconnect/social-api/internal/pkg/metrics"
)

// Repositories groups the storage ports the post use cases read and write.
type Repositories struct {
	Users    ports.UserRepository
	Posts    ports.PostRepository
	Likes    ports.LikeRepository
	Comments ports.CommentRepository
}

// PostService implements posts, likes and comments.
type PostService struct {
	users    ports.UserRepository
	posts    ports.PostRepository
	likes    ports.LikeRepository
	comments ports.CommentRepository
	idem     ports.IdempotencyStore // optional
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

var _ ports.PostService = (*PostService)(nil)

// NewPostService wires the post use cases. idem may be nil, which disables
// idempotent post creation.
func NewPostService(repos Repositories, idem ports.IdempotencyStore, activity ports.ActivityRecorder, logger zerolog.Logger) *PostService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &PostService{
		users:    repos.Users,
		posts:    repos.Posts,
		likes:    repos.Likes,
		comments: repos.Comments,
		idem:     idem,
		activity: activity,
		logger:   logger,
		now:      now,
	}
}

// CreatePost publishes a post for an existing user. With an idempotency key a
// retried request returns the post created by the first attempt.
func (s *PostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*ports.CreatePostResult, error) {
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	imageURL := encodeDataURI(in.Image)
	if strings.TrimSpace(in.Content) == "" && imageURL == "" {
		return nil, domain.Invalid("a post needs content or an image")
	}
	if utf8.RuneCountInString(in.Content) > domain.MaxPostLength {
		return nil, domain.Invalid("content must be at most %d characters", domain.MaxPostLength)
	}

	key := ""
	if in.IdempotencyKey != "" && s.idem != nil {
		key = idempotencyKey(in.UserID, in.IdempotencyKey)
		reserved, postID, err := s.idem.Reserve(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Int64("user_id", in.UserID).Msg("idempotency check failed, creating anyway")
			key = ""
		case !reserved && postID == 0:
			return nil, fmt.Errorf("%w: a request with this idempotency key is still in progress", domain.ErrConflict)
		case !reserved:
			existing, err := s.posts.FindByID(ctx, postID)
			if err == nil {
				metrics.IdempotentReplaysTotal.Inc()
				s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("post_id", postID).Msg("idempotent replay")
				return &ports.CreatePostResult{Post: existing, AlreadyExisted: true}, nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			// the earlier post was deleted since; create a fresh one under the same key
		}
	}

	post := &domain.Post{
		UserID:    in.UserID,
		Content:   in.Content,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		if key != "" {
			if relErr := s.idem.Release(ctx, key); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Int64("user_id", in.UserID).Msg("failed to create post")
		return nil, err
	}

	if key != "" {
		if err := s.idem.Complete(ctx, key, created.ID); err != nil {
			s.logger.Warn().Err(err).Int64("post_id", created.ID).Msg("failed to record idempotency key")
		}
	}

	metrics.PostsCreatedTotal.WithLabelValues(strconv.FormatBool(imageURL != "")).Inc()
	s.logger.Info().Int64("post_id", created.ID).Int64("user_id", in.UserID).Bool("image", imageURL != "").Msg("post created")
	s.activity.Record(domain.Activity{
		Kind:       domain.ActivityPostCreated,
		UserID:     in.UserID,
		PostID:     created.ID,
		OccurredAt: created.CreatedAt,
	})

	return &ports.CreatePostResult{Post: created}, nil
}

// ListPosts returns every post newest first, as seen by viewerID. A zero
// viewerID means an anonymous viewer who has liked nothing.
func (s *PostService) ListPosts(ctx context.Context, viewerID int64) ([]view.Post, error) {
	posts, err := s.posts.ListRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.assemble(ctx, posts, viewerID)
}

// ListUserPosts returns the posts owned by userID, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID, viewerID int64) ([]view.Post, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return s.assemble(ctx, posts, viewerID)
}

// DeletePost removes a post owned by requesterID together with its likes and
// comments.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID int64) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		s.logger.Warn().Int64("post_id", postID).Int64("requester_id", requesterID).Msg("delete rejected: not the owner")
		return domain.ErrUnauthorized
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	metrics.PostsDeletedTotal.Inc()
	s.logger.Info().Int64("post_id", postID).Msg("post deleted")
	s.activity.Record(domain.Activity{
		Kind:       domain.ActivityPostDeleted,
		UserID:     requesterID,
		PostID:     postID,
		OccurredAt: s.now(),
	})
	return nil
}

// ToggleLike flips whether userID likes postID.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID int64) (*ports.ToggleLikeResult, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	result := &ports.ToggleLikeResult{}
	kind := domain.ActivityPostLiked

	existing, err := s.likes.FindByUserAndPost(ctx, userID, postID)
	switch {
	case err == nil:
		// a concurrent unlike may have removed it already; either way it is gone
		if err := s.likes.Delete(ctx, existing.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		kind = domain.ActivityPostUnliked

	case errors.Is(err, domain.ErrNotFound):
		like, err := s.likes.Create(ctx, &domain.Like{UserID: userID, PostID: postID, CreatedAt: s.now()})
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn().Int64("post_id", postID).Int64("user_id", userID).Msg("concurrent like absorbed")
			like, err = s.likes.FindByUserAndPost(ctx, userID, postID)
			if errors.Is(err, domain.ErrNotFound) {
				// the winning like was already removed by an unlike
				like, err = nil, nil
			}
			kind = ""
		}
		if err != nil {
			return nil, err
		}
		result.Like = like

	default:
		return nil, err
	}

	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	result.Likes = count

	if kind != "" {
		action := "like"
		if kind == domain.ActivityPostUnliked {
			action = "unlike"
		}
		metrics.LikeTogglesTotal.WithLabelValues(action).Inc()
		s.activity.Record(domain.Activity{
			Kind:       kind,
			UserID:     userID,
			PostID:     postID,
			OccurredAt: s.now(),
		})
	}
	return result, nil
}

// AddComment attaches a comment by userID to postID.
func (s *PostService) AddComment(ctx context.Context, postID, userID int64, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.Invalid("comment content is required")
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return nil, domain.Invalid("comment must be at most %d characters", domain.MaxCommentLength)
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.comments.Create(ctx, &domain.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	created.Author = user
	metrics.CommentsTotal.Inc()

	s.activity.Record(domain.Activity{
		Kind:       domain.ActivityCommentAdded,
		UserID:     userID,
		PostID:     postID,
		CommentID:  created.ID,
		OccurredAt: created.CreatedAt,
	})
	return created, nil
}

// ListComments returns the comments on postID newest first. An unknown post
// simply has no comments.
func (s *PostService) ListComments(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func idempotencyKey(userID int64, key string) string {
	return fmt.Sprintf("post:%d:%s", userID, key)
}
