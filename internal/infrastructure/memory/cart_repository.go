// Package memory almacenamiento en proceso para cuando no hay Redis configurado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos en un mapa protegido por mutex. Guarda y devuelve copias.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string]entity.Cart
}

// NewCartRepository construye el repositorio en memoria.
func NewCartRepository() *CartRepo {
	return &CartRepo{carts: make(map[string]entity.Cart)}
}

// Get devuelve (nil, nil) si el usuario no tiene carrito.
func (r *CartRepo) Get(_ context.Context, userID string) (*entity.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	return clone(c), nil
}

// Save reemplaza el carrito del usuario.
func (r *CartRepo) Save(_ context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = *clone(*cart)
	return nil
}

// Update aplica fn con el mapa bloqueado.
func (r *CartRepo) Update(_ context.Context, userID string, fn repository.CartMutation) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var current *entity.Cart
	if c, ok := r.carts[userID]; ok {
		current = clone(c)
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	r.carts[userID] = *clone(*next)
	return next, nil
}

// Delete elimina el carrito; no falla si no existe.
func (r *CartRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func clone(c entity.Cart) *entity.Cart {
	items := make([]entity.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return &c
}
