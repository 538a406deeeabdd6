package ports

import (
	"context"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// ActivityRecorder accepts activity records without blocking the caller.
type ActivityRecorder interface {
	Record(activity domain.Activity)
}

// ActivityRepository persists the activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) error
	// ListByUser returns up to limit records for userID, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Activity, error)
}

// ActivityService processes and serves activity records.
type ActivityService interface {
	Process(ctx context.Context, activity domain.Activity) error
	ListUserActivity(ctx context.Context, userID int64) ([]*domain.Activity, error)
}
