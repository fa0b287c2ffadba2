package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// TotalsHandler cálculo de totales sin persistir nada (vista previa de formularios).
type TotalsHandler struct {
	uc  *calculation.UseCase
	log *logger.Logger
}

// NewTotalsHandler construye el handler.
func NewTotalsHandler(uc *calculation.UseCase, log *logger.Logger) *TotalsHandler {
	return &TotalsHandler{uc: uc, log: log}
}

// Calculate godoc
// @Summary      Calcular totales de una lista de líneas
// @Tags         totals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CalculateTotalsRequest  true  "Líneas"
// @Success      200   {object}  dto.CalculateTotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/totals/calculate [post]
func (h *TotalsHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateTotalsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Calculate(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Combined godoc
// @Summary      Totales por grupo y total combinado (servicios + repuestos)
// @Tags         totals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CombinedTotalsRequest  true  "Grupos de líneas"
// @Success      200   {object}  dto.CombinedTotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/totals/combined [post]
func (h *TotalsHandler) Combined(c *fiber.Ctx) error {
	var in dto.CombinedTotalsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Combined(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
