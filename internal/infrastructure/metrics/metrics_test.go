package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/infrastructure/metrics"
)

func TestMetrics_ContadoresDeOrdenes(t *testing.T) {
	m := metrics.New("compras")
	m.OrderCreated("purchase_order")
	m.OrderCreated("purchase_order")
	m.StatusChanged("purchase_order", "SENT")

	n, err := testutil.GatherAndCount(m.Registry(), "compras_orders_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_MiddlewareUsaRutaRegistrada(t *testing.T) {
	m := metrics.New("compras")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/suppliers/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/suppliers/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	n, err := testutil.GatherAndCount(m.Registry(), "compras_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "una sola serie para los tres IDs")
}
