package service

import (
	"time"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// NopRecorder discards activity records. It stands in when the activity trail
// is not configured.
type NopRecorder struct{}

func (NopRecorder) Record(domain.Activity) {}

// now returns the server timestamp stored on new entities. Postgres keeps
// microseconds, so finer precision would not survive a round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
