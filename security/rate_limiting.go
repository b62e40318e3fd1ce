package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles the report endpoints, which walk every booking and
// ticket block on each call.
type RateLimiter struct {
	redis     *redis.Client
	perMinute int
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{redis: redisClient, perMinute: perMinute}
}

// AllowReport reports whether the given identity (user id or IP) may run
// another report this minute. Redis being unreachable fails open: a missing
// limiter must not take the reporting pages down.
func (r *RateLimiter) AllowReport(ctx context.Context, identity string) bool {
	key := fmt.Sprintf("ratelimit:report:%s", identity)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		r.redis.Expire(ctx, key, time.Minute)
	}

	return count <= int64(r.perMinute)
}
