package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/calculation"
	"github.com/jhoicas/Compras-api/internal/application/dto"
	apphttp "github.com/jhoicas/Compras-api/internal/interfaces/http"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// fakeModules módulos activos por nombre; err simula fallo de la DB.
type fakeModules struct {
	active map[string]bool
	err    error
}

func (f fakeModules) HasActiveModule(_ context.Context, _, module string) (bool, error) {
	return f.active[module], f.err
}

func buildRouterApp(modules fakeModules) *fiber.App {
	app := fiber.New()
	log := logger.Nop()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		TotalsUC: calculation.NewUseCase(calculation.Currencies{Base: "VES", Reference: "USD"}),
		Modules:  modules,
		Tokens:   testSigner,
		Logger:   log,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

// ── Totales ───────────────────────────────────────────────────────────────────

func TestTotals_Calculate(t *testing.T) {
	app := buildRouterApp(fakeModules{})
	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"quantity": "2", "unit_price": "50", "discount_percentage": "10", "sales_percentage": "5"},
		},
	}
	resp := do(t, app, http.MethodPost, "/api/totals/calculate", "comprador", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CalculateTotalsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	// 100 - 10 = 90; venta 4.5; IVA 14.4; total 108.9
	assert.Equal(t, "108.90", out.Totals.Display.Total)
	assert.Equal(t, "90.00", out.Totals.Display.BaseImponible)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestTotals_DescuentoMayorA100_Retorna400(t *testing.T) {
	app := buildRouterApp(fakeModules{})
	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"quantity": "1", "unit_price": "10", "discount_percentage": "150"},
		},
	}
	resp := do(t, app, http.MethodPost, "/api/totals/calculate", "comprador", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestTotals_CuerpoInvalido(t *testing.T) {
	app := buildRouterApp(fakeModules{})
	req := httptest.NewRequest(http.MethodPost, "/api/totals/calculate", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestTotals_SinToken_Retorna401(t *testing.T) {
	app := buildRouterApp(fakeModules{})
	resp := do(t, app, http.MethodPost, "/api/totals/calculate", "", map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ── Módulos y roles ───────────────────────────────────────────────────────────

func TestRouter_ModuloInactivo_Retorna403(t *testing.T) {
	app := buildRouterApp(fakeModules{active: map[string]bool{"reports": true}})
	resp := do(t, app, http.MethodGet, "/api/suppliers", "admin", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MODULE_DISABLED", decodeError(t, resp).Code)
}

func TestRouter_FalloAlVerificarModulo_Retorna503(t *testing.T) {
	app := buildRouterApp(fakeModules{err: errors.New("db caída")})
	resp := do(t, app, http.MethodGet, "/api/reports/purchases?start_date=2025-01-01&end_date=2025-01-31", "admin", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "MODULE_CHECK_FAILED", decodeError(t, resp).Code)
}

func TestRouter_TotalesNoRequierenModulo(t *testing.T) {
	app := buildRouterApp(fakeModules{err: errors.New("no debería consultarse")})
	body := map[string]interface{}{"items": []interface{}{}}
	resp := do(t, app, http.MethodPost, "/api/totals/calculate", "comprador", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_EmpresasSoloAdmin(t *testing.T) {
	app := buildRouterApp(fakeModules{})
	resp := do(t, app, http.MethodGet, "/api/companies", "comprador", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRouter_IndiceDeCarritoInvalido(t *testing.T) {
	app := buildRouterApp(fakeModules{active: map[string]bool{"purchasing": true}})
	resp := do(t, app, http.MethodDelete, "/api/cart/items/abc", "comprador", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INDEX", decodeError(t, resp).Code)
}
