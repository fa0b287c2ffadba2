package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/infrastructure/memory"
)

func TestCartRepo_GuardaCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	missing, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	c := entity.NewCart("u1", "c1")
	c.Add(entity.CartItem{Description: "a", Quantity: decimal.NewFromInt(1)})
	require.NoError(t, repo.Save(ctx, c))

	c.Items[0].Description = "mutado"
	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "a", got.Items[0].Description)

	require.NoError(t, repo.Delete(ctx, "u1"))
	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartRepo_UpdateConcurrenteNoPierdeLineas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "u1", func(current *entity.Cart) (*entity.Cart, error) {
				if current == nil {
					current = entity.NewCart("u1", "c1")
				}
				current.Add(entity.CartItem{Description: "x", Quantity: decimal.NewFromInt(1)})
				return current, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 50)
}
