package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// orderTables tablas de cabecera y líneas de un tipo de orden.
type orderTables struct {
	header string
	items  string
}

var tablesByKind = map[entity.OrderKind]orderTables{
	entity.KindPurchaseOrder: {header: "purchase_orders", items: "purchase_order_items"},
	entity.KindQuoteRequest:  {header: "quote_requests", items: "quote_request_items"},
	entity.KindServiceOrder:  {header: "service_orders", items: "service_order_items"},
}

// OrderRepo persistencia de un tipo de orden. Los nombres de tabla salen de tablesByKind,
// nunca de la entrada del usuario.
type OrderRepo struct {
	q    Querier
	kind entity.OrderKind
	t    orderTables
}

// NewOrderRepository construye el repositorio de un tipo de orden. Un tipo desconocido
// cae en órdenes de compra.
func NewOrderRepository(q Querier, kind entity.OrderKind) *OrderRepo {
	t, ok := tablesByKind[kind]
	if !ok {
		kind = entity.KindPurchaseOrder
		t = tablesByKind[kind]
	}
	return &OrderRepo{q: q, kind: kind, t: t}
}

// OrderReposFor resuelve los tres repositorios sobre el mismo Querier (pool o tx).
func OrderReposFor(q Querier) repository.OrderRepos {
	repos := map[entity.OrderKind]*OrderRepo{
		entity.KindPurchaseOrder: NewOrderRepository(q, entity.KindPurchaseOrder),
		entity.KindQuoteRequest:  NewOrderRepository(q, entity.KindQuoteRequest),
		entity.KindServiceOrder:  NewOrderRepository(q, entity.KindServiceOrder),
	}
	return func(kind entity.OrderKind) repository.OrderRepository {
		if r, ok := repos[kind]; ok {
			return r
		}
		return repos[entity.KindPurchaseOrder]
	}
}

// NextNumber incrementa el contador (empresa, tipo) con un upsert; dentro de la transacción
// de creación la fila queda bloqueada hasta el commit.
func (r *OrderRepo) NextNumber(ctx context.Context, companyID string) (string, error) {
	const query = `
		INSERT INTO order_sequences (company_id, kind, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, kind) DO UPDATE SET last_value = order_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, string(r.kind)).Scan(&n); err != nil {
		return "", fmt.Errorf("next %s number: %w", r.kind, err)
	}
	return fmt.Sprintf("%s-%06d", r.kind.NumberPrefix(), n), nil
}

// Create persiste la cabecera.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO ` + r.t.header + ` (id, company_id, number, supplier_id, currency, exchange_rate,
			status, notes, created_by, source_quote_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.Number, o.SupplierID, o.Currency, nullIfZero(o.ExchangeRate),
		o.Status, o.Notes, nullIfEmpty(o.CreatedBy), nullIfEmpty(o.SourceQuoteID), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", r.kind, err)
	}
	return nil
}

// CreateItem agrega la línea al final (line_no conserva el orden de captura).
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO ` + r.t.items + ` (id, order_id, line_no, category, material_id, description,
			quantity, unit_price, discount_percentage, sales_percentage, is_exempt, tax_rate)
		VALUES ($1, $2, (SELECT COALESCE(MAX(line_no), 0) + 1 FROM ` + r.t.items + ` WHERE order_id = $2),
			$3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.Category, nullIfEmpty(it.MaterialID), it.Description,
		it.Quantity, it.UnitPrice, it.DiscountPercentage, it.SalesPercentage, it.IsExempt, it.TaxRate,
	)
	if err != nil {
		return fmt.Errorf("insert %s item: %w", r.kind, err)
	}
	return nil
}

// Update actualiza los datos editables de la cabecera.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE ` + r.t.header + `
		   SET supplier_id = $2, currency = $3, exchange_rate = $4, notes = $5, updated_at = $6
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.SupplierID, o.Currency, nullIfZero(o.ExchangeRate), o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItems borra todas las líneas de la orden (se reemplazan al editar).
func (r *OrderRepo) DeleteItems(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM `+r.t.items+` WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete %s items: %w", r.kind, err)
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	query := `UPDATE ` + r.t.header + ` SET status = $2, updated_at = $3 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, status, at)
	if err != nil {
		return fmt.Errorf("update %s status: %w", r.kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) selectHeader() string {
	return `
		SELECT id, company_id, number, supplier_id, currency, exchange_rate, status, notes,
		       created_by, source_quote_id, created_at, updated_at
		  FROM ` + r.t.header
}

// GetByID obtiene la cabecera; nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := r.scanOrder(r.q.QueryRow(ctx, r.selectHeader()+` WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.kind, err)
	}
	return o, nil
}

// GetItems devuelve las líneas en orden de captura.
func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, category, material_id, description, quantity, unit_price,
		       discount_percentage, sales_percentage, is_exempt, tax_rate
		  FROM ` + r.t.items + `
		 WHERE order_id = $1
		 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", r.kind, err)
	}
	defer rows.Close()

	var list []*entity.OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s item: %w", r.kind, err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ListByCompany lista cabeceras de la empresa, más recientes primero.
func (r *OrderRepo) ListByCompany(ctx context.Context, companyID string, f repository.OrderFilter) ([]*entity.Order, error) {
	query := r.selectHeader() + `
		 WHERE company_id = $1 AND ($2::text = '' OR status = $2)
		 ORDER BY created_at DESC, number DESC
		 LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.kind, err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+r.t.header+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) scanOrder(row pgxScanner) (*entity.Order, error) {
	var (
		o           entity.Order
		rate        decimal.NullDecimal
		createdBy   *string
		sourceQuote *string
	)
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.Number, &o.SupplierID, &o.Currency, &rate, &o.Status, &o.Notes,
		&createdBy, &sourceQuote, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Kind = r.kind
	o.ExchangeRate = zeroIfNull(rate)
	o.CreatedBy = derefString(createdBy)
	o.SourceQuoteID = derefString(sourceQuote)
	return &o, nil
}

func scanOrderItem(row pgxScanner) (*entity.OrderItem, error) {
	var (
		it         entity.OrderItem
		materialID *string
	)
	err := row.Scan(
		&it.ID, &it.OrderID, &it.Category, &materialID, &it.Description, &it.Quantity, &it.UnitPrice,
		&it.DiscountPercentage, &it.SalesPercentage, &it.IsExempt, &it.TaxRate,
	)
	if err != nil {
		return nil, err
	}
	it.MaterialID = derefString(materialID)
	return &it, nil
}
