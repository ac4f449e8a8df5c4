package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bogogo/internal/cart"

	"github.com/redis/go-redis/v9"
)

const (
	carritoTTL           = 30 * 24 * time.Hour
	checkoutPendienteTTL = 24 * time.Hour
	maxReintentosWatch   = 5
)

// ErrCarritoOcupado is returned when concurrent writers keep invalidating
// the optimistic update of the same cart.
var ErrCarritoOcupado = errors.New("carrito ocupado, intente nuevamente")

// CarritoRepository stores carts in Redis keyed by the browser's cart id,
// together with the one-shot pending-checkout marker.
type CarritoRepository interface {
	// Get returns an empty cart when none is stored.
	Get(ctx context.Context, carritoID string) (*cart.Carrito, error)
	// Update applies fn under WATCH and persists the result atomically.
	Update(ctx context.Context, carritoID string, fn func(*cart.Carrito) error) (*cart.Carrito, error)

	MarcarCheckoutPendiente(ctx context.Context, carritoID string) error
	// ConsumirCheckoutPendiente reports whether the marker was set, deleting it.
	ConsumirCheckoutPendiente(ctx context.Context, carritoID string) (bool, error)
}

type carritoRepo struct{ rdb *redis.Client }

func NewCarritoRepository(rdb *redis.Client) CarritoRepository { return &carritoRepo{rdb: rdb} }

func carritoKey(id string) string           { return "carrito:" + id }
func checkoutPendienteKey(id string) string { return "carrito:" + id + ":checkout_pendiente" }

func (r *carritoRepo) Get(ctx context.Context, carritoID string) (*cart.Carrito, error) {
	return loadCarrito(ctx, r.rdb, carritoKey(carritoID))
}

func (r *carritoRepo) Update(ctx context.Context, carritoID string, fn func(*cart.Carrito) error) (*cart.Carrito, error) {
	key := carritoKey(carritoID)
	var result *cart.Carrito

	txf := func(tx *redis.Tx) error {
		c, err := loadCarrito(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, carritoTTL)
			return nil
		})
		if err == nil {
			result = c
		}
		return err
	}

	for i := 0; i < maxReintentosWatch; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrCarritoOcupado
}

func (r *carritoRepo) MarcarCheckoutPendiente(ctx context.Context, carritoID string) error {
	return r.rdb.Set(ctx, checkoutPendienteKey(carritoID), "1", checkoutPendienteTTL).Err()
}

func (r *carritoRepo) ConsumirCheckoutPendiente(ctx context.Context, carritoID string) (bool, error) {
	err := r.rdb.GetDel(ctx, checkoutPendienteKey(carritoID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func loadCarrito(ctx context.Context, rdb redis.Cmdable, key string) (*cart.Carrito, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &cart.Carrito{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c cart.Carrito
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
