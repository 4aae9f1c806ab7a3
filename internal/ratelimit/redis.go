package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:" // Counter per caller: ratelimit:{key}

// Redis is a fixed-window limiter over a shared Redis counter store, for
// deployments with more than one instance.
type Redis struct {
	client *redis.Client
	limit  int
	period time.Duration
}

func NewRedis(client *redis.Client, limit int, period time.Duration) *Redis {
	return &Redis{client: client, limit: limit, period: period}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	counterKey := redisKeyPrefix + key

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, counterKey)
	// NX keeps the window anchored at the first request of the period.
	pipe.ExpireNX(ctx, counterKey, r.period)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	if incr.Val() <= int64(r.limit) {
		return true, 0, nil
	}

	ttl, err := r.client.TTL(ctx, counterKey).Result()
	if err != nil || ttl < 0 {
		ttl = r.period
	}
	return false, ttl, nil
}
