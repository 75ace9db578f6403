package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptStore counts failed logins per key inside a fixed window.
type LoginAttemptStore interface {
	Failures(ctx context.Context, key string) (count int, retryAfter time.Duration, err error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}

// RedisCounter is the subset of *redis.Client used for attempt counting.
type RedisCounter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type loginAttemptRepository struct {
	client RedisCounter
	prefix string
}

// NewLoginAttemptRepository returns a Redis-backed LoginAttemptStore.
func NewLoginAttemptRepository(client RedisCounter) LoginAttemptStore {
	return &loginAttemptRepository{client: client, prefix: "login:failures:"}
}

// noExpiry is what TTL reports for a key that exists without a timeout.
const noExpiry = time.Duration(-1)

// Failures reports the current count and how long until the window closes.
// A counter that lost its timeout has no window, so it is discarded.
func (r *loginAttemptRepository) Failures(ctx context.Context, key string) (int, time.Duration, error) {
	count, err := r.client.Get(ctx, r.prefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	ttl, err := r.client.TTL(ctx, r.prefix+key).Result()
	if err != nil {
		return count, 0, err
	}
	if ttl == noExpiry {
		return 0, 0, r.client.Del(ctx, r.prefix+key).Err()
	}
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}

// RecordFailure increments the counter and starts the window on the first
// failure. A window whose EXPIRE never landed is started again.
func (r *loginAttemptRepository) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	count, err := r.client.Incr(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	arm := count == 1
	if !arm {
		ttl, err := r.client.TTL(ctx, r.prefix+key).Result()
		if err != nil {
			return int(count), err
		}
		arm = ttl == noExpiry
	}
	if arm {
		if err := r.client.Expire(ctx, r.prefix+key, window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

func (r *loginAttemptRepository) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
