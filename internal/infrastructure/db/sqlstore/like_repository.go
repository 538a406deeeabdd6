package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialconnect/social-api/internal/core/domain"
)

type LikeRepository struct {
	db      *sql.DB
	dialect Dialect
}

func (r *LikeRepository) Create(ctx context.Context, l *domain.Like) (*domain.Like, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO likes (user_id, post_id, created_at) VALUES ($1, $2, $3) RETURNING id`

	out := *l
	if err := r.db.QueryRowContext(ctx, q, l.UserID, l.PostID, l.CreatedAt).Scan(&out.ID); err != nil {
		switch {
		case r.dialect.IsUniqueViolation(err):
			return nil, domain.ErrConflict
		case r.dialect.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("like target: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	return &out, nil
}

func (r *LikeRepository) FindByUserAndPost(ctx context.Context, userID, postID int64) (*domain.Like, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Like
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, post_id, created_at FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID).Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}

func (r *LikeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return rowsAffected(res, domain.ErrLikeNotFound)
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

func (r *LikeRepository) CountByPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(postIDs))
	err := inBatches(postIDs, func(batch []int64) error {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()

		in, args := inList(1, batch)
		rows, err := r.db.QueryContext(ctx,
			`SELECT post_id, COUNT(*) FROM likes WHERE post_id IN (`+in+`) GROUP BY post_id`, args...)
		if err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var postID, n int64
			if err := rows.Scan(&postID, &n); err != nil {
				return fmt.Errorf("scan like count: %w", err)
			}
			counts[postID] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *LikeRepository) LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	err := inBatches(postIDs, func(batch []int64) error {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()

		in, args := inList(2, batch)
		rows, err := r.db.QueryContext(ctx,
			`SELECT post_id FROM likes WHERE user_id = $1 AND post_id IN (`+in+`)`,
			append([]any{userID}, args...)...)
		if err != nil {
			return fmt.Errorf("viewer likes: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var postID int64
			if err := rows.Scan(&postID); err != nil {
				return fmt.Errorf("scan viewer like: %w", err)
			}
			liked[postID] = true
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return liked, nil
}
