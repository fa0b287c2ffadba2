package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/totals"
	"github.com/jhoicas/Compras-api/internal/infrastructure/redis"
)

func setup(t *testing.T, ttl time.Duration) (*redis.CartRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewCartRepository(client, ttl), mr
}

func sampleCart() *entity.Cart {
	c := entity.NewCart("u1", "c1")
	c.Add(entity.CartItem{
		Category:           entity.CategoryMaterial,
		Description:        "Cemento gris 42,5 kg",
		Quantity:           decimal.RequireFromString("2.5"),
		UnitPrice:          decimal.RequireFromString("10.333333"),
		DiscountPercentage: decimal.NewFromInt(5),
		TaxRate:            totals.DefaultTaxRate,
	})
	return c
}

func TestCartRepo_GuardarYLeer_ConservaDecimales(t *testing.T) {
	repo, _ := setup(t, time.Hour)
	ctx := context.Background()
	cart := sampleCart()

	require.NoError(t, repo.Save(ctx, cart))
	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "c1", got.CompanyID)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.333333")))
	assert.True(t, totals.Compute(got.Snapshot()).Equal(totals.Compute(cart.Snapshot())))
}

func TestCartRepo_NoExiste(t *testing.T) {
	repo, _ := setup(t, time.Hour)
	got, err := repo.Get(context.Background(), "nadie")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartRepo_Expira(t *testing.T) {
	repo, mr := setup(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleCart()))
	assert.Equal(t, time.Hour, mr.TTL("compras:cart:u1"))

	mr.FastForward(2 * time.Hour)
	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartRepo_Delete(t *testing.T) {
	repo, mr := setup(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleCart()))
	require.NoError(t, repo.Delete(ctx, "u1"))
	assert.False(t, mr.Exists("compras:cart:u1"))
	require.NoError(t, repo.Delete(ctx, "u1"))
}

func TestCartRepo_JSONCorrupto(t *testing.T) {
	repo, mr := setup(t, time.Hour)
	require.NoError(t, mr.Set("compras:cart:u1", "{no-json"))
	_, err := repo.Get(context.Background(), "u1")
	assert.Error(t, err)
}

// ── Update ────────────────────────────────────────────────────────────────────

func TestCartRepo_Update_CreaSiNoExiste(t *testing.T) {
	repo, _ := setup(t, time.Hour)
	ctx := context.Background()

	saved, err := repo.Update(ctx, "u1", func(current *entity.Cart) (*entity.Cart, error) {
		assert.Nil(t, current)
		return sampleCart(), nil
	})
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1)
}

func TestCartRepo_Update_ReintentaTrasEscrituraConcurrente(t *testing.T) {
	repo, mr := setup(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleCart()))

	// Otro proceso agrega una línea entre la lectura y el EXEC del primer intento.
	other := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = other.Close() })
	otherRepo := redis.NewCartRepository(other, time.Hour)

	calls := 0
	saved, err := repo.Update(ctx, "u1", func(current *entity.Cart) (*entity.Cart, error) {
		calls++
		if calls == 1 {
			concurrent := sampleCart()
			concurrent.Add(entity.CartItem{Description: "Arena lavada", Quantity: decimal.NewFromInt(1)})
			require.NoError(t, otherRepo.Save(ctx, concurrent))
		}
		current.Add(entity.CartItem{Description: "Cabilla 3/8", Quantity: decimal.NewFromInt(4)})
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "el primer EXEC falla y la mutación se repite")
	require.Len(t, saved.Items, 3)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Arena lavada", got.Items[1].Description)
	assert.Equal(t, "Cabilla 3/8", got.Items[2].Description)
}

func TestCartRepo_Update_ErrorNoGuarda(t *testing.T) {
	repo, mr := setup(t, time.Hour)
	ctx := context.Background()
	boom := assert.AnError

	_, err := repo.Update(ctx, "u1", func(*entity.Cart) (*entity.Cart, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("compras:cart:u1"))
}
