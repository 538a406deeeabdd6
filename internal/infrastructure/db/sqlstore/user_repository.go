package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialconnect/social-api/internal/core/domain"
)

type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO users (email, name, password_hash, bio, profile_picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	out := *u
	err := r.db.QueryRowContext(ctx, q, u.Email, u.Name, u.PasswordHash, u.Bio, u.ProfilePicture, u.CreatedAt).Scan(&out.ID)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1", email)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&n); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, bio = $2, profile_picture = $3 WHERE id = $4`,
		u.Name, u.Bio, u.ProfilePicture, u.ID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := rowsAffected(res, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) findOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
