package ports

import (
	"context"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// ImageUpload is a raw image received from a client.
type ImageUpload struct {
	ContentType string // may be empty; detected from Data when missing
	Data        []byte
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Bio          string
	ProfileImage *ImageUpload // optional
}

// UpdateProfileInput carries optional profile changes. A nil field is left
// untouched.
type UpdateProfileInput struct {
	UserID       int64
	Name         *string
	Bio          *string
	ProfileImage *ImageUpload
}

// UserService defines account use cases.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}
