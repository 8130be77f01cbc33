package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Uno", ReorderPoint: decimal.NewFromInt(5)}))
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Code: "W1", Name: "Principal", Active: true}))
}

func TestStore_RollbackDescartaEscrituras(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos inventory.Repos) error {
		st, err := repos.Stock.GetForUpdate(ctx, "p1", "w1")
		require.NoError(t, err)
		st.Quantity = decimal.NewFromInt(7)
		require.NoError(t, repos.Stock.Upsert(ctx, st))
		require.NoError(t, repos.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(7)}))
		require.NoError(t, repos.Products.UpdateCost(ctx, "p1", decimal.NewFromInt(3)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_ = s.Run(ctx, func(repos inventory.Repos) error {
		st, err := repos.Stock.Get(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.True(t, st.Quantity.IsZero())
		m, err := repos.Movements.GetByID(ctx, "m1")
		require.NoError(t, err)
		assert.Nil(t, m)
		return nil
	})
	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Cost.IsZero())
}

func TestStore_CommitVisibleParaLecturas(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)

	require.NoError(t, s.Run(ctx, func(repos inventory.Repos) error {
		st, err := repos.Stock.GetForUpdate(ctx, "p1", "w1")
		if err != nil {
			return err
		}
		st.Quantity = decimal.NewFromInt(4)
		if err := repos.Stock.Upsert(ctx, st); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(4)})
	}))

	levels, err := s.Levels().ListByWarehouse(ctx, "w1", 10, 0)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "SKU-1", levels[0].SKU)
	assert.True(t, levels[0].Quantity.Equal(decimal.NewFromInt(4)))

	low, err := s.Levels().ListLowStock(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, low, 1, "4 <= punto de reorden 5")

	_ = s.Run(ctx, func(repos inventory.Repos) error {
		sum, err := repos.Movements.SumQuantity(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(4)))
		return nil
	})
}

func TestStore_Duplicados(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)

	err := s.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "SKU-1", Name: "Otro"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	err = s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Code: "W1", Name: "Otra"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	list, err := s.Products().List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_DocumentosNoCompartenLineas(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	doc := &entity.Sale{ID: "s1", Status: entity.StatusDraft, Lines: []entity.SaleLine{{ID: "l1", Quantity: decimal.NewFromInt(2)}}}
	require.NoError(t, s.Run(ctx, func(repos inventory.Repos) error { return repos.Sales.Create(ctx, doc) }))

	doc.Lines[0].Quantity = decimal.NewFromInt(99)

	_ = s.Run(ctx, func(repos inventory.Repos) error {
		got, err := repos.Sales.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, got.Lines[0].Quantity.Equal(decimal.NewFromInt(2)))
		return nil
	})
}

func TestStore_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := memory.New().Run(ctx, func(inventory.Repos) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
