// Package ratelimit counts requests per client and policy.
package ratelimit

import (
	"context"
	"time"
)

// Policy caps a class of endpoints at Limit requests per Window.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Result describes the state of one key after a request was counted.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Store interface {
	Allow(ctx context.Context, key string, p Policy) (Result, error)
}

func storeKey(key string, p Policy) string {
	return p.Name + ":" + key
}
