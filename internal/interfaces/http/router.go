package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/cart"
	"github.com/jhoicas/Compras-api/internal/application/documents"
	"github.com/jhoicas/Compras-api/internal/application/orders"
	"github.com/jhoicas/Compras-api/internal/application/reports"
	"github.com/jhoicas/Compras-api/internal/application/usecase"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	SupplierUC *usecase.SupplierUseCase
	MaterialUC *usecase.MaterialUseCase
	Modules    moduleChecker
	TotalsUC   *calculation.UseCase
	OrdersUC   *orders.UseCase
	CartUC     *cart.UseCase
	DocsUC     *documents.UseCase
	ReportsUC  *reports.UseCase
	Tokens     TokenVerifier
	Logger     *logger.Logger
}

// Router registra las rutas de la API. Todo /api exige Bearer token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	api := app.Group("/api", AuthMiddleware(deps.Tokens))

	// Companies (solo admin)
	companies := api.Group("/companies", RequireRole(entity.RoleAdmin))
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Totales: cálculo puro, no requiere módulo
	totalsHandler := NewTotalsHandler(deps.TotalsUC, log)
	api.Post("/totals/calculate", totalsHandler.Calculate)
	api.Post("/totals/combined", totalsHandler.Combined)

	// Compras (módulo purchasing). El middleware va en cada grupo: un Group("/") con
	// handlers se aplicaría a todo /api.
	purchasing := RequireModule(entity.ModulePurchasing, deps.Modules, log)

	suppliers := api.Group("/suppliers", purchasing)
	supplierHandler := NewSupplierHandler(deps.SupplierUC, log)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	materials := api.Group("/materials", purchasing)
	materialHandler := NewMaterialHandler(deps.MaterialUC, log)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)
	materials.Get("/:id/price-history", materialHandler.PriceHistory)

	for path, kind := range map[string]entity.OrderKind{
		"/purchase-orders": entity.KindPurchaseOrder,
		"/quote-requests":  entity.KindQuoteRequest,
		"/service-orders":  entity.KindServiceOrder,
	} {
		g := api.Group(path, purchasing)
		h := NewOrderHandler(kind, deps.OrdersUC, deps.DocsUC, log)
		g.Post("/", h.Create)
		g.Get("/", h.List)
		g.Get("/:id", h.GetByID)
		g.Put("/:id", h.Update)
		g.Patch("/:id/status", h.UpdateStatus)
		g.Delete("/:id", h.Delete)
		g.Get("/:id/pdf", h.PDF)
		g.Post("/:id/send", h.Send)
		if kind == entity.KindQuoteRequest {
			g.Post("/:id/convert", h.Convert)
		}
	}

	cartGroup := api.Group("/cart", purchasing)
	cartHandler := NewCartHandler(deps.CartUC, log)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:index", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:index", cartHandler.RemoveItem)
	cartGroup.Get("/totals", cartHandler.Totals)
	cartGroup.Post("/checkout", cartHandler.Checkout)

	// Reportes (módulo reports)
	rep := api.Group("/reports", RequireModule(entity.ModuleReports, deps.Modules, log))
	reportHandler := NewReportHandler(deps.ReportsUC, log)
	rep.Get("/purchases", reportHandler.Purchases)
	rep.Get("/purchases.xlsx", reportHandler.PurchasesXLSX)
}
