package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/cart"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// CartHandler carrito del usuario del token.
type CartHandler struct {
	uc  *cart.UseCase
	log *logger.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase, log *logger.Logger) *CartHandler {
	return &CartHandler{uc: uc, log: log}
}

func lineIndex(c *fiber.Ctx) (int, bool) {
	i, err := strconv.Atoi(c.Params("index"))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func badIndex(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "index debe ser un entero no negativo"})
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LineItemRequest  true  "Línea"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.LineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), GetUserID(c), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Reemplazar la línea en la posición index
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        index  path  int  true  "Posición (desde 0)"
// @Param        body   body  dto.LineItemRequest  true  "Línea"
// @Success      200    {object}  dto.CartResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/cart/items/{index} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	i, ok := lineIndex(c)
	if !ok {
		return badIndex(c)
	}
	var in dto.LineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateItem(c.UserContext(), GetUserID(c), GetCompanyID(c), i, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar la línea en la posición index
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        index  path  int  true  "Posición (desde 0)"
// @Success      200    {object}  dto.CartResponse
// @Router       /api/cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	i, ok := lineIndex(c)
	if !ok {
		return badIndex(c)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), GetUserID(c), GetCompanyID(c), i)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     Bearer
// @Success      204
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Totals godoc
// @Summary      Totales del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        exchange_rate  query  string  false  "Tasa para el total de referencia"
// @Success      200  {object}  dto.TotalsResponse
// @Router       /api/cart/totals [get]
func (h *CartHandler) Totals(c *fiber.Ctx) error {
	var rate *decimal.Decimal
	if raw := c.Query("exchange_rate"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsPositive() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "exchange_rate debe ser un número mayor que 0"})
		}
		rate = &d
	}
	out, err := h.uc.Totals(c.UserContext(), GetUserID(c), GetCompanyID(c), rate)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Crear una orden con las líneas del carrito y vaciarlo
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Tipo de orden y proveedor"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Checkout(c.UserContext(), GetUserID(c), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
