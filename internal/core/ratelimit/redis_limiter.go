package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter as a fixed-window counter in Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a limiter allowing limit requests per window.
// The redisURL should be in the format: redis://[:password@]host[:port][/database]
func NewRedisLimiter(redisURL string, limit int, window time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}

	return &RedisLimiter{
		client: redis.NewClient(opts),
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}, nil
}

// Allow increments the counter of the current window and compares it with the limit.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := r.now()
	bucket := now.UnixNano() / int64(r.window)
	windowKey := "ratelimit:" + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to count request for %s: %w", key, err)
	}

	if incr.Val() <= r.limit {
		return true, 0, nil
	}

	windowEnd := time.Unix(0, (bucket+1)*int64(r.window))
	return false, windowEnd.Sub(now), nil
}

// Ping checks if Redis is reachable.
func (r *RedisLimiter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
