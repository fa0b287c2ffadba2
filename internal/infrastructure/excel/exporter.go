// Package excel exporta reportes de compras a .xlsx.
package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/reports"
)

const (
	sheetSuppliers = "Proveedores"
	sheetMaterials = "Materiales"
	sheetStatus    = "Estados"
)

var _ reports.Exporter = (*Exporter)(nil)

// Exporter genera el libro con una hoja por sección del reporte.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter {
	return &Exporter{}
}

// PurchaseReport escribe el reporte. Los montos se redondean a 2 decimales solo en la celda.
func (e *Exporter) PurchaseReport(r *dto.PurchaseReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}

	// La hoja por defecto se renombra para no dejar "Sheet1" vacía.
	if err := f.SetSheetName("Sheet1", sheetSuppliers); err != nil {
		return nil, err
	}
	period := fmt.Sprintf("Período: %s a %s", r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))

	// Proveedores
	sw := newSheetWriter(f, sheetSuppliers, header, amount)
	sw.title(period)
	sw.headers("Proveedor", "Moneda", "Órdenes", "Base imponible", "Descuento", "Venta", "IVA", "Total")
	for _, row := range r.BySupplier {
		t := row.Totals.Exact
		sw.row(row.SupplierName, row.Currency, row.OrderCount,
			money(t.BaseImponible), money(t.MontoDescuento), money(t.MontoVenta), money(t.MontoIVA), money(t.Total))
	}
	sw.amountColumns("D", "H")

	// Materiales
	if _, err := f.NewSheet(sheetMaterials); err != nil {
		return nil, err
	}
	sw = newSheetWriter(f, sheetMaterials, header, amount)
	sw.title(period)
	sw.headers("Material", "Moneda", "Cantidad", "Base imponible")
	for _, row := range r.ByMaterial {
		sw.row(row.MaterialName, row.Currency, row.Quantity.InexactFloat64(), money(row.BaseImponible))
	}
	sw.amountColumns("D", "D")

	// Estados
	if _, err := f.NewSheet(sheetStatus); err != nil {
		return nil, err
	}
	sw = newSheetWriter(f, sheetStatus, header, amount)
	sw.title(period)
	sw.headers("Tipo", "Estado", "Cantidad")
	for _, row := range r.StatusCounts {
		sw.row(row.Kind, row.Status, row.Count)
	}

	if sw.err != nil {
		return nil, sw.err
	}
	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter escribe filas consecutivas y guarda el primer error.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	next   int
	header int
	amount int
	err    error
}

func newSheetWriter(f *excelize.File, sheet string, header, amount int) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, next: 1, header: header, amount: amount}
}

func (w *sheetWriter) title(text string) {
	w.row(text)
	w.next++ // fila en blanco
}

func (w *sheetWriter) headers(cols ...string) {
	values := make([]interface{}, len(cols))
	for i, c := range cols {
		values[i] = c
	}
	first := w.next
	w.row(values...)
	if w.err != nil {
		return
	}
	end, _ := excelize.CoordinatesToCellName(len(cols), first)
	w.err = w.f.SetCellStyle(w.sheet, fmt.Sprintf("A%d", first), end, w.header)
	if w.err == nil {
		w.err = w.f.SetPanes(w.sheet, &excelize.Panes{Freeze: true, YSplit: first, TopLeftCell: fmt.Sprintf("A%d", first+1), ActivePane: "bottomLeft"})
	}
}

func (w *sheetWriter) row(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(1, w.next)
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
	w.next++
}

// amountColumns aplica formato de monto a las filas de datos escritas.
func (w *sheetWriter) amountColumns(from, to string) {
	if w.err != nil || w.next <= 4 {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, fmt.Sprintf("%s4", from), fmt.Sprintf("%s%d", to, w.next-1), w.amount)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func strPtr(s string) *string { return &s }
