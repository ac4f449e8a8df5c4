package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard is a Redis SETNX flag used for re-entrancy and at-most-once actions.
type Guard interface {
	// Acquire returns false when the key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisGuard struct{ rdb *redis.Client }

func NewGuard(rdb *redis.Client) Guard { return &redisGuard{rdb: rdb} }

func (g *redisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.rdb.SetNX(ctx, "guard:"+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (g *redisGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, "guard:"+key).Err()
}
