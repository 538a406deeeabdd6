package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialconnect/social-api/internal/core/domain"
)

type PostRepository struct {
	db      *sql.DB
	dialect Dialect
}

const selectPosts = `SELECT p.id, p.user_id, p.content, p.image_url, p.created_at, ` + userColumns + `
	FROM posts p JOIN users u ON u.id = p.user_id`

func scanPost(row scanner) (*domain.Post, error) {
	var p domain.Post
	author, err := scanUser(rowPrefix{row, []any{&p.ID, &p.UserID, &p.Content, &p.ImageURL, &p.CreatedAt}})
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.Author = author
	return &p, nil
}

// rowPrefix scans leading columns into prefix before handing the rest to the
// wrapped destinations, so joined rows can reuse scanUser.
type rowPrefix struct {
	row    scanner
	prefix []any
}

func (r rowPrefix) Scan(dest ...any) error {
	return r.row.Scan(append(append([]any{}, r.prefix...), dest...)...)
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO posts (user_id, content, image_url, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, q, p.UserID, p.Content, p.ImageURL, p.CreatedAt).Scan(&id); err != nil {
		if r.dialect.IsForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p, err := scanPost(r.db.QueryRowContext(ctx, selectPosts+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) ListRecent(ctx context.Context) ([]*domain.Post, error) {
	return r.list(ctx, selectPosts+` ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Post, error) {
	return r.list(ctx, selectPosts+` WHERE p.user_id = $1 ORDER BY p.created_at DESC, p.id DESC`, userID)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return rowsAffected(res, domain.ErrPostNotFound)
}

func (r *PostRepository) list(ctx context.Context, q string, args ...any) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
