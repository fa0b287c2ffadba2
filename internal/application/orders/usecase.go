// Package orders casos de uso de órdenes de compra, solicitudes de cotización y órdenes
// de servicio: alta, edición, ciclo de estados, conversión de cotizaciones y checkout del carrito.
package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/domain/totals"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// Config monedas por defecto.
type Config struct {
	BaseCurrency      string
	ReferenceCurrency string
}

// UseCase orquesta las órdenes de los tres tipos sobre el mismo flujo.
type UseCase struct {
	tx        TxRunner
	repos     repository.OrderRepos
	suppliers repository.SupplierRepository
	materials repository.MaterialRepository
	cfg       Config
	metrics   Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewUseCase(
	tx TxRunner,
	repos repository.OrderRepos,
	suppliers repository.SupplierRepository,
	materials repository.MaterialRepository,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:        tx,
		repos:     repos,
		suppliers: suppliers,
		materials: materials,
		cfg:       cfg,
		metrics:   noopMetrics{},
		log:       log.Child("component", "orders"),
		now:       time.Now,
	}
}

// WithMetrics registra los contadores de negocio.
func (uc *UseCase) WithMetrics(m Metrics) *UseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

// Create crea una orden en borrador con su consecutivo y registra el historial de precios.
func (uc *UseCase) Create(ctx context.Context, kind entity.OrderKind, companyID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, companyID, in.SupplierID); err != nil {
		return nil, err
	}
	items, err := uc.buildItems(ctx, kind, companyID, in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Kind:         kind,
		SupplierID:   in.SupplierID,
		Currency:     uc.currency(in.Currency),
		ExchangeRate: rateOrZero(in.ExchangeRate),
		Status:       entity.StatusDraft,
		Notes:        in.Notes,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunOrders(ctx, func(orders repository.OrderRepos, history repository.PriceHistoryRepository) error {
		return insertOrder(ctx, orders(kind), history, order, items)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderCreated(string(kind))
	uc.log.Info().Str("order_id", order.ID).Str("number", order.Number).Str("kind", string(kind)).Msg("orden creada")
	return uc.toResponse(order, items), nil
}

// CreateFromCart crea una orden a partir de las líneas del carrito (ya normalizadas).
func (uc *UseCase) CreateFromCart(ctx context.Context, companyID, userID string, in dto.CheckoutRequest, lines []entity.CartItem) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidInput)
	}
	req := dto.CreateOrderRequest{
		SupplierID:   in.SupplierID,
		Currency:     in.Currency,
		ExchangeRate: in.ExchangeRate,
		Notes:        in.Notes,
		Items:        make([]dto.LineItemRequest, 0, len(lines)),
	}
	for _, l := range lines {
		req.Items = append(req.Items, cartLineRequest(l))
	}
	return uc.Create(ctx, entity.OrderKind(in.Kind), companyID, userID, req)
}

// Update reemplaza cabecera y líneas. Solo borradores y enviadas.
func (uc *UseCase) Update(ctx context.Context, kind entity.OrderKind, companyID, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, companyID, in.SupplierID); err != nil {
		return nil, err
	}
	items, err := uc.buildItems(ctx, kind, companyID, in.Items)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = uc.tx.RunOrders(ctx, func(orders repository.OrderRepos, history repository.PriceHistoryRepository) error {
		repo := orders(kind)
		o, err := loadOwned(ctx, repo, companyID, id)
		if err != nil {
			return err
		}
		if !entity.IsEditable(o.Status) {
			return fmt.Errorf("%w: la orden %s está en estado %s", domain.ErrConflict, o.Number, o.Status)
		}
		o.SupplierID = in.SupplierID
		o.Currency = uc.currency(in.Currency)
		o.ExchangeRate = rateOrZero(in.ExchangeRate)
		o.Notes = in.Notes
		o.UpdatedAt = uc.now()
		if err := repo.Update(ctx, o); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, o.ID); err != nil {
			return err
		}
		for _, it := range items {
			it.OrderID = o.ID
			if err := repo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		order = o
		return recordPrices(ctx, history, o, items)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("kind", string(kind)).Msg("orden actualizada")
	return uc.toResponse(order, items), nil
}

// GetByID devuelve la orden con sus líneas y totales calculados.
func (uc *UseCase) GetByID(ctx context.Context, kind entity.OrderKind, companyID, id string) (*dto.OrderResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	repo := uc.repos(kind)
	order, err := loadOwned(ctx, repo, companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := repo.GetItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, items), nil
}

// List lista las órdenes de la empresa, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, kind entity.OrderKind, companyID string, f dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	f.Normalize()
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	list, err := uc.repos(kind).ListByCompany(ctx, companyID, repository.OrderFilter{
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderSummaryResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.OrderSummaryResponse{
			ID:         o.ID,
			Kind:       string(o.Kind),
			Number:     o.Number,
			SupplierID: o.SupplierID,
			Currency:   o.Currency,
			Status:     o.Status,
			CreatedAt:  o.CreatedAt,
		})
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  f.PageRequest.Response(),
	}, nil
}

// UpdateStatus aplica una transición del ciclo de vida. Aprobar o rechazar exige rol aprobador.
func (uc *UseCase) UpdateStatus(ctx context.Context, kind entity.OrderKind, companyID, role, id, status string) (*dto.OrderResponse, error) {
	if !kind.Valid() || !entity.ValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	repo := uc.repos(kind)
	order, err := loadOwned(ctx, repo, companyID, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, status)
	}
	if entity.RequiresApprover(status) && !entity.CanApprove(role) {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	if err := repo.UpdateStatus(ctx, order.ID, status, now); err != nil {
		return nil, err
	}
	from := order.Status
	order.Status = status
	order.UpdatedAt = now

	items, err := repo.GetItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	uc.metrics.StatusChanged(string(kind), status)
	uc.log.Info().Str("order_id", order.ID).Str("from", from).Str("to", status).Msg("cambio de estado")
	return uc.toResponse(order, items), nil
}

// Delete elimina una orden en borrador junto con sus líneas.
func (uc *UseCase) Delete(ctx context.Context, kind entity.OrderKind, companyID, id string) error {
	if !kind.Valid() {
		return domain.ErrInvalidInput
	}
	return uc.tx.RunOrders(ctx, func(orders repository.OrderRepos, _ repository.PriceHistoryRepository) error {
		repo := orders(kind)
		order, err := loadOwned(ctx, repo, companyID, id)
		if err != nil {
			return err
		}
		if order.Status != entity.StatusDraft {
			return fmt.Errorf("%w: solo se eliminan borradores", domain.ErrConflict)
		}
		if err := repo.DeleteItems(ctx, order.ID); err != nil {
			return err
		}
		return repo.Delete(ctx, order.ID)
	})
}

// Convert crea una orden de compra o de servicio en borrador a partir de una solicitud de
// cotización aprobada y archiva la solicitud, todo en la misma transacción.
func (uc *UseCase) Convert(ctx context.Context, companyID, userID, quoteID string, in dto.ConvertQuoteRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	target := entity.OrderKind(in.TargetKind)

	var (
		order *entity.Order
		items []*entity.OrderItem
	)
	err := uc.tx.RunOrders(ctx, func(orders repository.OrderRepos, history repository.PriceHistoryRepository) error {
		quotes := orders(entity.KindQuoteRequest)
		quote, err := loadOwned(ctx, quotes, companyID, quoteID)
		if err != nil {
			return err
		}
		if quote.Status != entity.StatusApproved {
			return fmt.Errorf("%w: solo se convierten solicitudes aprobadas (estado %s)", domain.ErrInvalidTransition, quote.Status)
		}
		source, err := quotes.GetItems(ctx, quote.ID)
		if err != nil {
			return err
		}

		now := uc.now()
		order = &entity.Order{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			Kind:          target,
			SupplierID:    quote.SupplierID,
			Currency:      quote.Currency,
			ExchangeRate:  quote.ExchangeRate,
			Status:        entity.StatusDraft,
			Notes:         quote.Notes,
			CreatedBy:     userID,
			SourceQuoteID: quote.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		items = make([]*entity.OrderItem, 0, len(source))
		for i, s := range source {
			// Las cotizaciones admiten precio 0; la orden destino no.
			if err := checkPrice(target, i, s.UnitPrice); err != nil {
				return err
			}
			cp := *s
			cp.ID = uuid.New().String()
			items = append(items, &cp)
		}
		if err := insertOrder(ctx, orders(target), history, order, items); err != nil {
			return err
		}
		return quotes.UpdateStatus(ctx, quote.ID, entity.StatusArchived, now)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderCreated(string(target))
	uc.metrics.StatusChanged(string(entity.KindQuoteRequest), entity.StatusArchived)
	uc.log.Info().Str("quote_id", quoteID).Str("order_id", order.ID).Str("kind", string(target)).Msg("cotización convertida")
	return uc.toResponse(order, items), nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertOrder(ctx context.Context, repo repository.OrderRepository, history repository.PriceHistoryRepository, order *entity.Order, items []*entity.OrderItem) error {
	number, err := repo.NextNumber(ctx, order.CompanyID)
	if err != nil {
		return err
	}
	order.Number = number
	if err := repo.Create(ctx, order); err != nil {
		return err
	}
	for _, it := range items {
		it.OrderID = order.ID
		if err := repo.CreateItem(ctx, it); err != nil {
			return err
		}
	}
	return recordPrices(ctx, history, order, items)
}

// recordPrices un registro por línea de material con precio positivo.
func recordPrices(ctx context.Context, history repository.PriceHistoryRepository, order *entity.Order, items []*entity.OrderItem) error {
	for _, it := range items {
		if it.MaterialID == "" || !it.UnitPrice.IsPositive() {
			continue
		}
		rec := &entity.PriceHistory{
			ID:           uuid.New().String(),
			CompanyID:    order.CompanyID,
			MaterialID:   it.MaterialID,
			SupplierID:   order.SupplierID,
			UnitPrice:    it.UnitPrice,
			Currency:     order.Currency,
			ExchangeRate: order.ExchangeRate,
			OrderID:      order.ID,
			OrderKind:    order.Kind,
			CreatedAt:    order.UpdatedAt,
		}
		if err := history.Create(ctx, rec); err != nil {
			return fmt.Errorf("historial de precios: %w", err)
		}
	}
	return nil
}

func loadOwned(ctx context.Context, repo repository.OrderRepository, companyID, id string) (*entity.Order, error) {
	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (uc *UseCase) checkSupplier(ctx context.Context, companyID, supplierID string) error {
	s, err := uc.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, supplierID)
	}
	if s.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// buildItems valida y normaliza las líneas. Las órdenes de compra y de servicio exigen
// precio mayor que cero; las solicitudes de cotización lo admiten en cero.
// checkPrice solo las solicitudes de cotización admiten líneas sin precio.
func checkPrice(kind entity.OrderKind, line int, price decimal.Decimal) error {
	if kind != entity.KindQuoteRequest && !price.IsPositive() {
		return fmt.Errorf("línea %d: %w: unit_price debe ser mayor que 0", line, domain.ErrInvalidInput)
	}
	return nil
}

func (uc *UseCase) buildItems(ctx context.Context, kind entity.OrderKind, companyID string, reqs []dto.LineItemRequest) ([]*entity.OrderItem, error) {
	items := make([]*entity.OrderItem, 0, len(reqs))
	for i, r := range reqs {
		if err := calculation.CheckLine(r); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i, err)
		}
		if err := checkPrice(kind, i, r.UnitPrice); err != nil {
			return nil, err
		}
		category := r.Category
		if category == "" {
			category = entity.CategoryMaterial
		}
		if category == entity.CategoryService && kind != entity.KindServiceOrder {
			return nil, fmt.Errorf("línea %d: %w: solo las órdenes de servicio admiten servicios", i, domain.ErrInvalidInput)
		}
		if r.MaterialID != "" {
			m, err := uc.materials.GetByID(ctx, r.MaterialID)
			if err != nil {
				return nil, err
			}
			if m == nil || m.CompanyID != companyID {
				return nil, fmt.Errorf("línea %d: %w: material %s", i, domain.ErrNotFound, r.MaterialID)
			}
		}
		n := r.Normalized()
		items = append(items, &entity.OrderItem{
			ID:                 uuid.New().String(),
			Category:           category,
			MaterialID:         r.MaterialID,
			Description:        r.Description,
			Quantity:           n.Quantity,
			UnitPrice:          n.UnitPrice,
			DiscountPercentage: n.DiscountPercentage,
			SalesPercentage:    n.SalesPercentage,
			IsExempt:           n.IsExempt,
			TaxRate:            n.TaxRate,
		})
	}
	return items, nil
}

func (uc *UseCase) currency(c string) string {
	if c == "" {
		return uc.cfg.BaseCurrency
	}
	return c
}

func rateOrZero(r *decimal.Decimal) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return *r
}

func cartLineRequest(l entity.CartItem) dto.LineItemRequest {
	disc, sales, rate := l.DiscountPercentage, l.SalesPercentage, l.TaxRate
	return dto.LineItemRequest{
		Category:           l.Category,
		MaterialID:         l.MaterialID,
		Description:        l.Description,
		Quantity:           l.Quantity,
		UnitPrice:          l.UnitPrice,
		DiscountPercentage: &disc,
		SalesPercentage:    &sales,
		IsExempt:           l.IsExempt,
		TaxRate:            &rate,
	}
}

// toResponse calcula los totales con el motor. En órdenes de servicio el total es la
// suma campo a campo de los totales por categoría.
func (uc *UseCase) toResponse(o *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            o.ID,
		CompanyID:     o.CompanyID,
		Kind:          string(o.Kind),
		Number:        o.Number,
		SupplierID:    o.SupplierID,
		Currency:      o.Currency,
		Status:        o.Status,
		Notes:         o.Notes,
		CreatedBy:     o.CreatedBy,
		SourceQuoteID: o.SourceQuoteID,
		Items:         make([]dto.OrderItemResponse, 0, len(items)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.ExchangeRate.IsPositive() {
		rate := o.ExchangeRate
		resp.ExchangeRate = &rate
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:                 it.ID,
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

	present := func(t totals.Totals) dto.TotalsResponse {
		return dto.NewTotalsResponse(t, o.Currency, o.ExchangeRate, uc.cfg.ReferenceCurrency)
	}
	if o.Kind != entity.KindServiceOrder {
		resp.Totals = present(totals.Compute(entity.LineItems(items)))
		return resp
	}

	byCat := entity.TotalsByCategory(items)
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	parts := make([]totals.Totals, 0, len(cats))
	resp.CategoryTotals = make(map[string]dto.TotalsResponse, len(cats))
	for _, c := range cats {
		parts = append(parts, byCat[c])
		resp.CategoryTotals[c] = present(byCat[c])
	}
	resp.Totals = present(totals.Sum(parts...))
	return resp
}
