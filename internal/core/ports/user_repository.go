package ports

import (
	"context"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// A taken email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update overwrites the mutable profile fields (name, bio, picture).
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
