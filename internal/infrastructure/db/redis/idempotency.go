package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// pending marks a key whose request has not produced a post yet.
const pending = "pending"

// IdempotencyStore remembers which post an Idempotency-Key produced.
// Key format: idem:<scope>, where scope is chosen by the caller.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// reserveAttempts covers a key expiring between SETNX and GET once.
const reserveAttempts = 2

// Reserve claims key with SETNX. When the key is already held it reports the
// recorded post id, or 0 while the first request is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, int64, error) {
	for attempt := 0; attempt < reserveAttempts; attempt++ {
		ok, err := s.client.SetNX(ctx, s.key(key), pending, s.ttl).Result()
		if err != nil {
			return false, 0, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return true, 0, nil
		}

		val, err := s.client.Get(ctx, s.key(key)).Result()
		if errors.Is(err, redis.Nil) {
			// expired between the two calls, claim it again
			continue
		}
		if err != nil {
			return false, 0, fmt.Errorf("idempotency lookup: %w", err)
		}
		if val == pending {
			return false, 0, nil
		}
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return false, 0, fmt.Errorf("idempotency value %q: %w", val, err)
		}
		return false, id, nil
	}
	return false, 0, nil
}

// Complete records postID under key for the rest of the TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, postID int64) error {
	return s.client.Set(ctx, s.key(key), strconv.FormatInt(postID, 10), s.ttl).Err()
}

// Release drops key so the client can retry a failed request.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:" + key
}
