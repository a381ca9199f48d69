package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const urlKeyPrefix = "signed_url:"

// URLCacheRedis keeps signed media URLs in Redis with a TTL.
type URLCacheRedis struct {
	Client *redis.Client
}

func NewURLCacheRedis(client *redis.Client) *URLCacheRedis {
	return &URLCacheRedis{Client: client}
}

func (r *URLCacheRedis) Get(ctx context.Context, key string) (string, bool, error) {
	url, err := r.Client.Get(ctx, urlKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (r *URLCacheRedis) Set(ctx context.Context, key, url string, ttl time.Duration) error {
	return r.Client.Set(ctx, urlKeyPrefix+key, url, ttl).Err()
}
