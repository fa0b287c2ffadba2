package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain/totals"
	"github.com/jhoicas/Compras-api/internal/infrastructure/excel"
)

func sampleReport() *dto.PurchaseReportResponse {
	t := totals.Compute([]totals.LineItem{{
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.RequireFromString("33.333"),
		TaxRate:   totals.DefaultTaxRate,
	}})
	return &dto.PurchaseReportResponse{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		BySupplier: []dto.SupplierPurchasesRow{{
			SupplierID: "s1", SupplierName: "Ferretería Oriente", Currency: "VES", OrderCount: 2,
			Totals: dto.NewTotalsResponse(t, "VES", decimal.Zero, "USD"),
		}},
		ByMaterial: []dto.MaterialPurchasesRow{{
			MaterialID: "m1", MaterialName: "Tornillo 1/4", Currency: "VES",
			Quantity: decimal.NewFromInt(3), BaseImponible: t.BaseImponible,
		}},
		StatusCounts: []dto.StatusCountRow{{Kind: "purchase_order", Status: "APPROVED", Count: 2}},
	}
}

func TestPurchaseReport_HojasYValores(t *testing.T) {
	data, err := excel.NewExporter().PurchaseReport(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Proveedores", "Materiales", "Estados"}, f.GetSheetList())

	cells := map[string]string{
		"A1": "Período: 2025-03-01 a 2025-03-31",
		"A3": "Proveedor",
		"A4": "Ferretería Oriente",
		"C4": "2",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Proveedores", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	total, err := f.GetCellValue("Proveedores", "H4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "116", total) // 99.999 * 1.16 = 115.99884 → 116.00

	count, err := f.GetCellValue("Estados", "C4")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}

func TestPurchaseReport_Vacio(t *testing.T) {
	data, err := excel.NewExporter().PurchaseReport(&dto.PurchaseReportResponse{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
