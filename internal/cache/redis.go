package cache

import (
	"context"
	"time"

	"qipad/config"

	"github.com/go-redis/redis/v8"
)

// NewRedis connects and pings; wallet serialization depends on Redis being
// up, so a failed ping is fatal for the caller.
func NewRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
