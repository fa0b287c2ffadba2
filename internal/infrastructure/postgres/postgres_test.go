package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// ── Órdenes ───────────────────────────────────────────────────────────────────

func TestOrderRepo_NextNumber_PrefijoPorTipo(t *testing.T) {
	mock := newMock(t)
	repos := postgres.OrderReposFor(mock)

	mock.ExpectQuery("INSERT INTO order_sequences").
		WithArgs("c1", "purchase_order").
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(7)))
	mock.ExpectQuery("INSERT INTO order_sequences").
		WithArgs("c1", "quote_request").
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(1)))

	n, err := repos(entity.KindPurchaseOrder).NextNumber(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "OC-000007", n)

	n, err = repos(entity.KindQuoteRequest).NextNumber(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "SC-000001", n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID_NoExiste(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock, entity.KindServiceOrder)

	mock.ExpectQuery("FROM service_orders").WithArgs("o1").WillReturnError(pgx.ErrNoRows)

	o, err := repo.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_Create_NumeroDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock, entity.KindPurchaseOrder)
	now := time.Now()

	mock.ExpectExec("INSERT INTO purchase_orders").
		WithArgs("o1", "c1", "OC-000001", "s1", "VES", pgxmock.AnyArg(),
			entity.StatusDraft, "", pgxmock.AnyArg(), pgxmock.AnyArg(), now, now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.Order{
		ID: "o1", CompanyID: "c1", Number: "OC-000001", SupplierID: "s1", Currency: "VES",
		Status: entity.StatusDraft, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_UpdateStatus_SinFilas(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock, entity.KindQuoteRequest)
	at := time.Now()

	mock.ExpectExec("UPDATE quote_requests SET status").
		WithArgs("o1", entity.StatusSent, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "o1", entity.StatusSent, at)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_DeleteItems_UsaTablaDelTipo(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock, entity.KindServiceOrder)

	mock.ExpectExec("DELETE FROM service_order_items").
		WithArgs("o1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, repo.DeleteItems(context.Background(), "o1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Transacciones ─────────────────────────────────────────────────────────────

func TestTxRunner_Commit(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO material_price_history").
		WithArgs("h1", "c1", "m1", "s1", pgxmock.AnyArg(),
			"VES", pgxmock.AnyArg(), "o1", string(entity.KindPurchaseOrder), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := runner.RunOrders(context.Background(), func(_ repository.OrderRepos, history repository.PriceHistoryRepository) error {
		return history.Create(context.Background(), &entity.PriceHistory{
			ID: "h1", CompanyID: "c1", MaterialID: "m1", SupplierID: "s1",
			UnitPrice: decimal.NewFromInt(10), Currency: "VES", OrderID: "o1",
			OrderKind: entity.KindPurchaseOrder, CreatedAt: time.Now(),
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollbackSiFallaElCallback(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := runner.RunOrders(context.Background(), func(repository.OrderRepos, repository.PriceHistoryRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_ErrorAlIniciar(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := runner.RunOrders(context.Background(), func(repository.OrderRepos, repository.PriceHistoryRepository) error {
		t.Fatal("no debe ejecutarse")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

// ── Catálogos ─────────────────────────────────────────────────────────────────

func TestSupplierRepo_Delete_ConOrdenes(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewSupplierRepository(mock)

	mock.ExpectExec("DELETE FROM suppliers").
		WithArgs("s1").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	assert.ErrorIs(t, repo.Delete(context.Background(), "s1"), domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierRepo_GetByCompanyAndRIF(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewSupplierRepository(mock)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "company_id", "name", "rif", "email", "phone", "address", "created_at", "updated_at"}).
		AddRow("s1", "c1", "Ferretería Oriente", "J-12345678-9", nil, nil, nil, now, now)
	mock.ExpectQuery("FROM suppliers WHERE company_id").WithArgs("c1", "J-12345678-9").WillReturnRows(rows)

	s, err := repo.GetByCompanyAndRIF(context.Background(), "c1", "J-12345678-9")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Ferretería Oriente", s.Name)
	assert.Empty(t, s.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterialRepo_Update_SinFilas(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewMaterialRepository(mock)

	mock.ExpectExec("UPDATE materials").
		WithArgs("m1", "TOR-01", "Tornillo", pgxmock.AnyArg(), "UND", false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &entity.Material{ID: "m1", Code: "TOR-01", Name: "Tornillo", Unit: "UND"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepo_HasActiveModule(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCompanyRepository(mock)

	mock.ExpectQuery("FROM company_modules").
		WithArgs("c1", entity.ModulePurchasing).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasActiveModule(context.Background(), "c1", entity.ModulePurchasing)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepo_List(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewCompanyRepository(mock)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "name", "rif", "address", "phone", "email", "status", "created_at", "updated_at"}).
		AddRow("c1", "Acme", "J-1", "", "", "", "active", now, now).
		AddRow("c2", "Beta", "J-2", "", "", "", "active", now, now)
	mock.ExpectQuery("FROM companies ORDER BY").WithArgs(20, 0).WillReturnRows(rows)

	list, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "J-2", list[1].RIF)
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func TestReportRepo_GetStatusCounts(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewReportRepository(mock)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows := pgxmock.NewRows([]string{"kind", "status", "count"}).
		AddRow("purchase_order", entity.StatusApproved, 3).
		AddRow("quote_request", entity.StatusDraft, 1)
	mock.ExpectQuery("UNION ALL").WithArgs("c1", start, end).WillReturnRows(rows)

	counts, err := repo.GetStatusCounts(context.Background(), "c1", start, end)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, entity.KindPurchaseOrder, counts[0].Kind)
	assert.Equal(t, 3, counts[0].Count)
	assert.Equal(t, entity.KindQuoteRequest, counts[1].Kind)
}
