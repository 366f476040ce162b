package database

import (
	"context"
	"time"

	"azarpredictor-backend/config"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis returns nil without error when no redis host is configured;
// callers then run without the status cache.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	addr := cfg.RedisFullAddr()
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
