// Package redis carritos de compras en Redis con expiración.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/config"
)

const (
	keyPrefix = "compras:cart:"
	// maxRetries reintentos de Update cuando otra escritura toca la clave entre WATCH y EXEC.
	maxRetries = 5
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo guarda cada carrito como JSON bajo compras:cart:<userID>. Cada Save renueva el TTL.
type CartRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository construye el repositorio. ttl <= 0 = sin expiración.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepo {
	if ttl < 0 {
		ttl = 0
	}
	return &CartRepo{client: client, ttl: ttl}
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get devuelve (nil, nil) si el usuario no tiene carrito o ya expiró.
func (r *CartRepo) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	return read(ctx, r.client, keyPrefix+userID)
}

// Update lee y reescribe el carrito con WATCH/MULTI: si otra escritura cambia la
// clave en medio, EXEC falla y la mutación se repite sobre el valor nuevo.
func (r *CartRepo) Update(ctx context.Context, userID string, fn repository.CartMutation) (*entity.Cart, error) {
	key := keyPrefix + userID
	var saved *entity.Cart
	txf := func(tx *redis.Tx) error {
		current, err := read(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			saved = next
		}
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: carrito modificado concurrentemente, reintente", domain.ErrConflict)
}

// getter lo cumplen *redis.Client y *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func read(ctx context.Context, c getter, key string) (*entity.Cart, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}
	return &cart, nil
}

// Save reemplaza el carrito del usuario.
func (r *CartRepo) Save(ctx context.Context, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+cart.UserID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Delete elimina el carrito; no falla si no existe.
func (r *CartRepo) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
