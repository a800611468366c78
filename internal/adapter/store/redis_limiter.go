package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window request counter keyed per client.
type RedisLimiter struct {
	client *redis.Client
	limit  int // Max requests per window
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	k := "ratelimit:predict:" + key

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	// The first hit opens the window; later hits must not extend it.
	if n == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(r.limit), nil
}
