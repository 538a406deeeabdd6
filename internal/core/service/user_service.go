package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/pkg/metrics"
)

// UserService implements registration, login and profile management.
type UserService struct {
	repo     ports.UserRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
	hashCost int
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(repo ports.UserRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *UserService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &UserService{
		repo:     repo,
		activity: activity,
		logger:   logger,
		now:      now,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("name, email and password are required")
	}
	if utf8.RuneCountInString(in.Bio) > domain.MaxBioLength {
		return nil, domain.Invalid("bio must be at most %d characters", domain.MaxBioLength)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.Invalid("password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Email:          email,
		Name:           name,
		PasswordHash:   string(hash),
		Bio:            in.Bio,
		ProfilePicture: encodeDataURI(in.ProfileImage),
		CreatedAt:      s.now(),
	}

	// The unique index still guards against a concurrent registration that
	// slipped past the existence check.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.logger.Info().Int64("user_id", created.ID).Msg("user registered")
	s.activity.Record(domain.Activity{
		Kind:       domain.ActivityUserRegistered,
		UserID:     created.ID,
		OccurredAt: created.CreatedAt,
	})
	return created, nil
}

// Login verifies credentials. No session or token is issued.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_email").Inc()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.Debug().Int64("user_id", user.ID).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// UpdateProfile applies the supplied changes. An empty name means "keep the
// current one", while a present but empty bio clears it.
func (s *UserService) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			user.Name = name
		}
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > domain.MaxBioLength {
			return nil, domain.Invalid("bio must be at most %d characters", domain.MaxBioLength)
		}
		user.Bio = *in.Bio
	}
	if uri := encodeDataURI(in.ProfileImage); uri != "" {
		user.ProfilePicture = uri
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(domain.Activity{
		Kind:       domain.ActivityProfileUpdated,
		UserID:     updated.ID,
		OccurredAt: s.now(),
	})
	return updated, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}
