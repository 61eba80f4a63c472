package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore is a fixed-window counter shared by every API instance.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Allow(ctx context.Context, key string, p Policy) (Result, error) {
	k := redisKeyPrefix + storeKey(key, p)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("count request: %w", err)
	}

	window := ttl.Val()
	// -1 means the key was just created without an expiry.
	if window < 0 {
		if err := s.client.PExpire(ctx, k, p.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("set window expiry: %w", err)
		}
		window = p.Window
	}

	count := int(incr.Val())
	res := Result{
		Allowed:   count <= p.Limit,
		Limit:     p.Limit,
		Remaining: max(p.Limit-count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = window
	}
	return res, nil
}
