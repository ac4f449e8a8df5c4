package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist holds revoked token ids until their natural expiry.
type TokenDenylist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
	// Claim revokes tokenID and reports whether this call was the one that
	// did it. Single-use tokens are redeemed through Claim.
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

type redisDenylist struct{ rdb *redis.Client }

func NewTokenDenylist(rdb *redis.Client) TokenDenylist { return &redisDenylist{rdb: rdb} }

func (d *redisDenylist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, "auth:denylist:"+tokenID, 1, ttl).Err()
}

func (d *redisDenylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, "auth:denylist:"+tokenID).Result()
	return n > 0, err
}

func (d *redisDenylist) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	return d.rdb.SetNX(ctx, "auth:denylist:"+tokenID, 1, ttl).Result()
}
