package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// CartMutation recibe el carrito actual (nil si no existe) y devuelve el que se guarda.
type CartMutation func(current *entity.Cart) (*entity.Cart, error)

// CartRepository guarda el carrito de cada usuario. Get devuelve (nil, nil) si no existe.
// Update aplica la mutación sin perder escrituras concurrentes del mismo usuario;
// si la mutación falla no se guarda nada.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Update(ctx context.Context, userID string, fn CartMutation) (*entity.Cart, error)
	Delete(ctx context.Context, userID string) error
}
