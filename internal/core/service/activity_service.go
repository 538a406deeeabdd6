package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
)

const activityListLimit = 50

type activityService struct {
	users ports.UserRepository
	repo  ports.ActivityRepository
	log   zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(users ports.UserRepository, repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{users: users, repo: repo, log: log}
}

// Process stamps and persists a single activity record.
func (s *activityService) Process(ctx context.Context, a domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &a); err != nil {
		return fmt.Errorf("process activity: %w", err)
	}

	s.log.Debug().
		Str("activity_id", a.ID).
		Str("kind", string(a.Kind)).
		Int64("user_id", a.UserID).
		Msg("activity recorded")
	return nil
}

// ListUserActivity returns the latest records for an existing user.
func (s *activityService) ListUserActivity(ctx context.Context, userID int64) ([]*domain.Activity, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByUser(ctx, userID, activityListLimit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return items, nil
}
