package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const catalogoVersionKey = "catalogo:version"

// CatalogoCache caches public catalog reads. Invalidar bumps a version
// counter so every cached entry becomes unreachable at once.
type CatalogoCache interface {
	// Get decodes the cached value into dst and reports a hit.
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Invalidar(ctx context.Context) error
}

type redisCatalogoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogoCache(rdb *redis.Client, ttl time.Duration) CatalogoCache {
	return &redisCatalogoCache{rdb: rdb, ttl: ttl}
}

func (c *redisCatalogoCache) key(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, catalogoVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("catalogo:%d:%s", v, key), nil
}

func (c *redisCatalogoCache) Get(ctx context.Context, key string, dst any) bool {
	k, err := c.key(ctx, key)
	if err != nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set is best effort; failures are only logged.
func (c *redisCatalogoCache) Set(ctx context.Context, key string, v any) {
	k, err := c.key(ctx, key)
	if err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(context.WithoutCancel(ctx), k, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("catalogo: no se pudo guardar en cache")
	}
}

func (c *redisCatalogoCache) Invalidar(ctx context.Context) error {
	return c.rdb.Incr(ctx, catalogoVersionKey).Err()
}
