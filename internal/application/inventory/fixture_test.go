package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const actor = "user-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "esperado %s, obtenido %s %v", want, got, msgAndArgs)
}

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	adjustments *inventory.AdjustmentUseCase
	transfers   *inventory.TransferUseCase
	purchases   *inventory.PurchaseUseCase
	sales       *inventory.SaleUseCase
	query       *inventory.QueryUseCase
	replenish   *inventory.ReplenishmentUseCase
}

func newFixture(t *testing.T, settings inventory.Settings) *fixture {
	t.Helper()
	store := memory.New()
	log := logger.Nop()
	return &fixture{
		ctx:         context.Background(),
		store:       store,
		adjustments: inventory.NewAdjustmentUseCase(store, settings, log),
		transfers:   inventory.NewTransferUseCase(store, settings, log),
		purchases:   inventory.NewPurchaseUseCase(store, settings, log),
		sales:       inventory.NewSaleUseCase(store, settings, log),
		query:       inventory.NewQueryUseCase(store, store.Levels()),
		replenish:   inventory.NewReplenishmentUseCase(store.Levels()),
	}
}

func (f *fixture) product(t *testing.T, sku string, reorderPoint, minStock string) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          "Producto " + sku,
		UnitID:        "94",
		Price:         d("10"),
		Cost:          decimal.Zero,
		MinStockLevel: d(minStock),
		ReorderPoint:  d(reorderPoint),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	return p.ID
}

func (f *fixture) warehouse(t *testing.T, code string) string {
	t.Helper()
	now := time.Now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      "Bodega " + code,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Warehouses().Create(f.ctx, w))
	return w.ID
}

// stockIn ingresa qty unidades al costo dado con un ajuste aprobado.
func (f *fixture) stockIn(t *testing.T, productID, warehouseID, qty, cost string) {
	t.Helper()
	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: warehouseID,
		Reason:      "saldo inicial",
		Lines: []inventory.AdjustmentLineInput{
			{ProductID: productID, Type: entity.AdjustmentIncrease, Quantity: d(qty), UnitCost: ptr(cost)},
		},
	})
	require.NoError(t, err)
	if adj.Status == entity.StatusPending {
		_, err = f.adjustments.Approve(f.ctx, adj.ID, actor)
		require.NoError(t, err)
	}
}

func (f *fixture) balance(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	st, err := f.query.GetBalance(f.ctx, productID, warehouseID)
	require.NoError(t, err)
	return st.Quantity
}

func (f *fixture) cost(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Cost
}

func (f *fixture) ledger(t *testing.T, filter entity.MovementFilter) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.query.LedgerHistory(f.ctx, filter)
	require.NoError(t, err)
	return list
}

// assertConsistent comprueba que el saldo del par coincide con su kardex y que
// cada asiento encadena stock_before/stock_after con el anterior.
func (f *fixture) assertConsistent(t *testing.T, productID, warehouseID string) {
	t.Helper()
	rec, err := f.query.Reconcile(f.ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Truef(t, rec.Balanced(), "drift %s", rec.Drift)

	prev := decimal.Zero
	for _, m := range f.ledger(t, entity.MovementFilter{ProductID: productID, WarehouseID: warehouseID, Limit: 500}) {
		assertDec(t, prev.String(), m.StockBefore, "stock_before encadenado")
		assertDec(t, m.StockBefore.Add(m.Quantity).String(), m.StockAfter, "stock_after = before + qty")
		prev = m.StockAfter
	}
}
