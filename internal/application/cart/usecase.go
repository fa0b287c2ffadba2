// Package cart borrador de líneas por usuario previo a crear una orden.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/domain/totals"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// OrderCreator crea la orden en el checkout (lo implementa orders.UseCase).
type OrderCreator interface {
	CreateFromCart(ctx context.Context, companyID, userID string, in dto.CheckoutRequest, lines []entity.CartItem) (*dto.OrderResponse, error)
}

// UseCase operaciones sobre el carrito del usuario autenticado.
type UseCase struct {
	repo         repository.CartRepository
	orders       OrderCreator
	baseCurrency string
	refCurrency  string
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CartRepository, orders OrderCreator, calc calculation.Currencies, log *logger.Logger) *UseCase {
	return &UseCase{
		repo:         repo,
		orders:       orders,
		baseCurrency: calc.Base,
		refCurrency:  calc.Reference,
		log:          log.Child("component", "cart"),
	}
}

// Get devuelve el carrito (vacío si no existe).
func (uc *UseCase) Get(ctx context.Context, userID, companyID string) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(c), nil
}

// AddItem agrega una línea validada y normalizada.
func (uc *UseCase) AddItem(ctx context.Context, userID, companyID string, in dto.LineItemRequest) (*dto.CartResponse, error) {
	item, err := toCartItem(in)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, userID, companyID, func(c *entity.Cart) error {
		c.Add(item)
		return nil
	})
}

// UpdateItem reemplaza la línea en index.
func (uc *UseCase) UpdateItem(ctx context.Context, userID, companyID string, index int, in dto.LineItemRequest) (*dto.CartResponse, error) {
	item, err := toCartItem(in)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, userID, companyID, func(c *entity.Cart) error {
		if !c.Update(index, item) {
			return fmt.Errorf("%w: línea %d", domain.ErrNotFound, index)
		}
		return nil
	})
}

// RemoveItem elimina la línea en index.
func (uc *UseCase) RemoveItem(ctx context.Context, userID, companyID string, index int) (*dto.CartResponse, error) {
	return uc.mutate(ctx, userID, companyID, func(c *entity.Cart) error {
		if !c.Remove(index) {
			return fmt.Errorf("%w: línea %d", domain.ErrNotFound, index)
		}
		return nil
	})
}

// Clear vacía el carrito.
func (uc *UseCase) Clear(ctx context.Context, userID string) error {
	return uc.repo.Delete(ctx, userID)
}

// Totals totales del carrito calculados sobre una copia de sus líneas.
func (uc *UseCase) Totals(ctx context.Context, userID, companyID string, rate *decimal.Decimal) (*dto.TotalsResponse, error) {
	c, err := uc.load(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	r := decimal.Zero
	if rate != nil {
		r = *rate
	}
	out := dto.NewTotalsResponse(totals.Compute(c.Snapshot()), uc.baseCurrency, r, uc.refCurrency)
	return &out, nil
}

// Checkout crea la orden con las líneas del carrito y lo vacía.
func (uc *UseCase) Checkout(ctx context.Context, userID, companyID string, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	c, err := uc.load(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	order, err := uc.orders.CreateFromCart(ctx, companyID, userID, in, c.Items)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, userID); err != nil {
		// La orden ya existe; un carrito sin vaciar no invalida el checkout.
		uc.log.Warn().Err(err).Str("user_id", userID).Str("order_id", order.ID).Msg("no se pudo vaciar el carrito")
	}
	return order, nil
}

// mutate lee, modifica y guarda en una sola operación del repositorio, así dos
// peticiones simultáneas del mismo usuario no se pisan.
func (uc *UseCase) mutate(ctx context.Context, userID, companyID string, fn func(*entity.Cart) error) (*dto.CartResponse, error) {
	c, err := uc.repo.Update(ctx, userID, func(current *entity.Cart) (*entity.Cart, error) {
		c := ownCart(current, userID, companyID)
		if err := fn(c); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(c), nil
}

// load devuelve el carrito guardado o uno nuevo.
func (uc *UseCase) load(ctx context.Context, userID, companyID string) (*entity.Cart, error) {
	c, err := uc.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ownCart(c, userID, companyID), nil
}

// ownCart un carrito de otra empresa se descarta.
func ownCart(c *entity.Cart, userID, companyID string) *entity.Cart {
	if c == nil || c.CompanyID != companyID {
		return entity.NewCart(userID, companyID)
	}
	return c
}

func toCartItem(in dto.LineItemRequest) (entity.CartItem, error) {
	if err := dto.Validate(in); err != nil {
		return entity.CartItem{}, err
	}
	if err := calculation.CheckLine(in); err != nil {
		return entity.CartItem{}, err
	}
	n := in.Normalized()
	category := in.Category
	if category == "" {
		category = entity.CategoryMaterial
	}
	return entity.CartItem{
		Category:           category,
		MaterialID:         in.MaterialID,
		Description:        in.Description,
		Quantity:           n.Quantity,
		UnitPrice:          n.UnitPrice,
		DiscountPercentage: n.DiscountPercentage,
		SalesPercentage:    n.SalesPercentage,
		IsExempt:           n.IsExempt,
		TaxRate:            n.TaxRate,
	}, nil
}

func (uc *UseCase) toResponse(c *entity.Cart) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	for i, it := range c.Items {
		items = append(items, dto.CartItemResponse{
			Index:              i,
			Category:           it.Category,
			MaterialID:         it.MaterialID,
			Description:        it.Description,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountPercentage: it.DiscountPercentage,
			SalesPercentage:    it.SalesPercentage,
			IsExempt:           it.IsExempt,
			TaxRate:            it.TaxRate,
			Breakdown:          it.LineItem().Breakdown(),
		})
	}
	return &dto.CartResponse{
		Items:     items,
		Totals:    dto.NewTotalsResponse(totals.Compute(c.Snapshot()), uc.baseCurrency, decimal.Zero, uc.refCurrency),
		UpdatedAt: c.UpdatedAt,
	}
}
