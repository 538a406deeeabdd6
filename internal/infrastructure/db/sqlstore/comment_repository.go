package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/socialconnect/social-api/internal/core/domain"
)

type CommentRepository struct {
	db      *sql.DB
	dialect Dialect
}

const selectComments = `SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, ` + userColumns + `
	FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row scanner) (*domain.Comment, error) {
	var c domain.Comment
	author, err := scanUser(rowPrefix{row, []any{&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt}})
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.Author = author
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO comments (post_id, user_id, content, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	out := *c
	if err := r.db.QueryRowContext(ctx, q, c.PostID, c.UserID, c.Content, c.CreatedAt).Scan(&out.ID); err != nil {
		if r.dialect.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("comment target: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &out, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	grouped, err := r.ListByPosts(ctx, []int64{postID})
	if err != nil {
		return nil, err
	}
	if grouped[postID] == nil {
		return []*domain.Comment{}, nil
	}
	return grouped[postID], nil
}

func (r *CommentRepository) ListByPosts(ctx context.Context, postIDs []int64) (map[int64][]*domain.Comment, error) {
	grouped := make(map[int64][]*domain.Comment, len(postIDs))
	// a post never spans two batches, so each group stays newest first
	err := inBatches(postIDs, func(batch []int64) error {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()

		in, args := inList(1, batch)
		rows, err := r.db.QueryContext(ctx,
			selectComments+` WHERE c.post_id IN (`+in+`) ORDER BY c.created_at DESC, c.id DESC`, args...)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanComment(rows)
			if err != nil {
				return fmt.Errorf("scan comment: %w", err)
			}
			grouped[c.PostID] = append(grouped[c.PostID], c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return grouped, nil
}
