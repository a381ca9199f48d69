package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OpenRedis connects and pings Redis.
func OpenRedis(ctx context.Context, s *Settings, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}
	logger.Info("Connected to Redis", zap.String("ping", pong))
	return client, nil
}
