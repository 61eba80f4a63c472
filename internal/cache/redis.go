package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/abhishek622/portfolio/internal/config"
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// Checker reports Redis reachability to the health endpoint.
type Checker struct {
	Client *redis.Client
}

func (Checker) Name() string { return "redis" }

func (c Checker) Ping(ctx context.Context) error {
	return Ping(ctx, c.Client)
}
