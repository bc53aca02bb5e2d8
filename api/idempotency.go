package api

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "idem"

// RedisDeduper stores idempotency keys in Redis so every instance replays
// the same create for a repeated key.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper using the provided Redis client and TTL.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(scope, key string) string {
	return scope + ":" + dedupeKeyPrefix + ":" + key
}

// Reserve claims key for id. When the key is already claimed it returns the
// id stored by the first claim.
func (r *RedisDeduper) Reserve(ctx context.Context, scope, key, id string) (string, bool, error) {
	k := r.key(scope, key)
	for attempt := 0; attempt < 2; attempt++ {
		added, err := r.client.SetNX(ctx, k, id, r.ttl).Result()
		if err != nil {
			return "", false, err
		}
		if added {
			return id, true, nil
		}
		existing, err := r.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between the two calls
			continue
		}
		if err != nil {
			return "", false, err
		}
		return existing, false, nil
	}
	return "", false, errors.New("idempotency key churn")
}

// Release deletes a previously reserved key so the caller may retry.
func (r *RedisDeduper) Release(ctx context.Context, scope, key string) error {
	return r.client.Del(ctx, r.key(scope, key)).Err()
}
