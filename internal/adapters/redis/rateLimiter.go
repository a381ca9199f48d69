package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiterRedis is a fixed-window counter shared by every app instance.
type RateLimiterRedis struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
	now    func() time.Time
}

func NewRateLimiterRedis(client *redis.Client, limit int, window time.Duration) *RateLimiterRedis {
	return &RateLimiterRedis{Client: client, Limit: limit, Window: window, now: time.Now}
}

// Allow counts the hit in the current window; the first hit sets the expiry.
func (r *RateLimiterRedis) Allow(ctx context.Context, key string) (bool, error) {
	window := r.now().UnixNano() / int64(r.Window)
	k := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := r.Client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.Client.Expire(ctx, k, r.Window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(r.Limit), nil
}
