package ports

import "context"

// IdempotencyStore remembers which post a client request key produced.
type IdempotencyStore interface {
	// Reserve claims key. When it was already claimed, reserved is false and
	// postID holds the post recorded for it, or 0 while the first request is
	// still in flight.
	Reserve(ctx context.Context, key string) (reserved bool, postID int64, err error)
	// Complete records the post created under key.
	Complete(ctx context.Context, key string, postID int64) error
	// Release forgets key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
