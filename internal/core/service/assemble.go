package service

import (
	"context"
	"fmt"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/view"
)

// assemble builds the viewer-relative views of posts, keeping their order. Like
// counts, the viewer's likes and comments are each loaded in one query for the
// whole page.
func (s *PostService) assemble(ctx context.Context, posts []*domain.Post, viewerID int64) ([]view.Post, error) {
	out := make([]view.Post, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	counts, err := s.likes.CountByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("assemble posts: count likes: %w", err)
	}

	liked := map[int64]bool{}
	if viewerID != 0 {
		liked, err = s.likes.LikedPostIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("assemble posts: viewer likes: %w", err)
		}
	}

	comments, err := s.comments.ListByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("assemble posts: comments: %w", err)
	}

	for _, p := range posts {
		out = append(out, view.NewPost(p, counts[p.ID], liked[p.ID], comments[p.ID]))
	}
	return out, nil
}
