package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/reports"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler reportes de compras (módulo reports).
type ReportHandler struct {
	uc  *reports.UseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

func reportRequest(c *fiber.Ctx) dto.PurchaseReportRequest {
	return dto.PurchaseReportRequest{StartDate: c.Query("start_date"), EndDate: c.Query("end_date")}
}

// Purchases godoc
// @Summary      Reporte de compras del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  true  "YYYY-MM-DD"
// @Param        end_date    query  string  true  "YYYY-MM-DD (incluido)"
// @Success      200  {object}  dto.PurchaseReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/purchases [get]
func (h *ReportHandler) Purchases(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	out, err := h.uc.Purchases(c.UserContext(), companyID, reportRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PurchasesXLSX godoc
// @Summary      Reporte de compras en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start_date  query  string  true  "YYYY-MM-DD"
// @Param        end_date    query  string  true  "YYYY-MM-DD (incluido)"
// @Success      200  {file}  binary
// @Router       /api/reports/purchases.xlsx [get]
func (h *ReportHandler) PurchasesXLSX(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	data, filename, err := h.uc.ExportPurchases(c.UserContext(), companyID, reportRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
