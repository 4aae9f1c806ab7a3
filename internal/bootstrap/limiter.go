package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/projectdesk/projectdesk-backend/config"
	"github.com/projectdesk/projectdesk-backend/internal/ratelimit"
)

// BuildLimiter constructs the proxy rate limiter: Redis-backed when a shared
// counter store is configured, in-memory otherwise. The second return value
// is the janitor cron for the in-memory variant (nil otherwise); the caller
// stops it on shutdown. A nil limiter means rate limiting is disabled.
func BuildLimiter(cfg config.RateLimitConfig) (ratelimit.Limiter, *cron.Cron) {
	if !cfg.Enabled {
		return nil, nil
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return ratelimit.NewRedis(client, cfg.Limit, cfg.Window), nil
	}

	mem := ratelimit.NewMemory(cfg.Limit, cfg.Window)
	return mem, ratelimit.StartJanitor(mem)
}
