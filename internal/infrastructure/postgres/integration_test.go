//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestPool levanta PostgreSQL en un contenedor, aplica las migraciones y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inventario_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 3, version)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	pool, err := postgres.NewPoolFromURL(ctx, dsn, func(pc *pgxpool.Config) { pc.MaxConns = 10 })
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type pgFixture struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	tx        *postgres.TxRunner
	purchases *inventory.PurchaseUseCase
	sales     *inventory.SaleUseCase
	adjust    *inventory.AdjustmentUseCase
	query     *inventory.QueryUseCase
}

func newPGFixture(t *testing.T) *pgFixture {
	pool := newTestPool(t)
	tx := postgres.NewTxRunner(pool)
	settings := inventory.DefaultSettings()
	return &pgFixture{
		ctx:       context.Background(),
		pool:      pool,
		tx:        tx,
		purchases: inventory.NewPurchaseUseCase(tx, settings, logger.Nop()),
		sales:     inventory.NewSaleUseCase(tx, settings, logger.Nop()),
		adjust:    inventory.NewAdjustmentUseCase(tx, settings, logger.Nop()),
		query:     inventory.NewQueryUseCase(tx, postgres.NewInventoryLevelRepository(pool)),
	}
}

func (f *pgFixture) catalog(t *testing.T) (productID, warehouseID string) {
	t.Helper()
	now := time.Now()
	p := &entity.Product{ID: uuid.New().String(), SKU: "SKU-" + uuid.New().String()[:6], Name: "Producto", UnitID: "94",
		Price: dec("10"), Cost: decimal.Zero, MinStockLevel: decimal.Zero, ReorderPoint: dec("5"), CreatedAt: now, UpdatedAt: now}
	w := &entity.Warehouse{ID: uuid.New().String(), Code: "W-" + uuid.New().String()[:6], Name: "Bodega", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewProductRepository(f.pool).Create(f.ctx, p))
	require.NoError(t, postgres.NewWarehouseRepository(f.pool).Create(f.ctx, w))
	return p.ID, w.ID
}

func (f *pgFixture) receive(t *testing.T, productID, warehouseID, qty, cost string) {
	t.Helper()
	po, err := f.purchases.Create(f.ctx, "tester", inventory.PurchaseInput{
		SupplierID:  "prov-1",
		WarehouseID: warehouseID,
		Lines:       []inventory.PurchaseLineInput{{ProductID: productID, Quantity: dec(qty), UnitCost: dec(cost)}},
	})
	require.NoError(t, err)
	_, err = f.purchases.Approve(f.ctx, po.ID, "tester")
	require.NoError(t, err)
	_, err = f.purchases.Receive(f.ctx, po.ID, "tester", nil)
	require.NoError(t, err)
}

func TestPostgres_CompraVentaYAjusteRechazado(t *testing.T) {
	f := newPGFixture(t)
	p, w := f.catalog(t)

	f.receive(t, p, w, "10", "5.00")
	f.receive(t, p, w, "10", "7.00")
	prod, err := postgres.NewProductRepository(f.pool).GetByID(f.ctx, p)
	require.NoError(t, err)
	assert.True(t, prod.Cost.Equal(dec("6")), "costo %s", prod.Cost)

	so, err := f.sales.Create(f.ctx, "tester", inventory.SaleInput{
		WarehouseID: w,
		Lines:       []inventory.SaleLineInput{{ProductID: p, Quantity: dec("4"), UnitPrice: dec("9")}},
	})
	require.NoError(t, err)
	_, err = f.sales.Approve(f.ctx, so.ID, "tester")
	require.NoError(t, err)
	_, err = f.sales.Fulfill(f.ctx, so.ID, "tester", nil)
	require.NoError(t, err)

	adj, err := f.adjust.Create(f.ctx, "tester", inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentDecrease, Quantity: dec("20")}},
	})
	require.NoError(t, err)
	_, err = f.adjust.Approve(f.ctx, adj.ID, "tester")
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.Available.Equal(dec("16")))

	st, err := f.query.GetBalance(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec("16")))

	movs, err := f.query.LedgerHistory(f.ctx, entity.MovementFilter{ProductID: p, WarehouseID: w})
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, entity.MovementSaleFulfill, movs[2].Type)
	assert.True(t, movs[2].StockBefore.Equal(dec("20")))
	assert.True(t, movs[2].StockAfter.Equal(dec("16")))
	assert.True(t, movs[2].UnitCost.Equal(dec("6")))

	rec, err := f.query.Reconcile(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, rec.Balanced())

	levels, err := postgres.NewInventoryLevelRepository(f.pool).ListByWarehouse(f.ctx, w, 10, 0)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.True(t, levels[0].Quantity.Equal(dec("16")))
}

func TestPostgres_DespachosConcurrentesRespetanElSaldo(t *testing.T) {
	f := newPGFixture(t)
	p, w := f.catalog(t)
	f.receive(t, p, w, "10", "1")

	const orders = 8
	ids := make([]string, orders)
	for i := range ids {
		so, err := f.sales.Create(f.ctx, "tester", inventory.SaleInput{
			WarehouseID: w,
			Lines:       []inventory.SaleLineInput{{ProductID: p, Quantity: dec("3"), UnitPrice: dec("1")}},
		})
		require.NoError(t, err)
		_, err = f.sales.Approve(f.ctx, so.ID, "tester")
		require.NoError(t, err)
		ids[i] = so.ID
	}

	var ok atomic.Int32
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := f.sales.Fulfill(f.ctx, id, "tester", nil)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			if err != nil {
				return err
			}
			ok.Add(1)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 3, ok.Load())

	st, err := f.query.GetBalance(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec("1")), "saldo %s", st.Quantity)

	rec, err := f.query.Reconcile(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, rec.Balanced())
}

func TestPostgres_RollbackNoDejaRastro(t *testing.T) {
	f := newPGFixture(t)
	p, w := f.catalog(t)
	boom := errors.New("boom")

	err := f.tx.Run(f.ctx, func(repos inventory.Repos) error {
		st, err := repos.Stock.GetForUpdate(f.ctx, p, w)
		require.NoError(t, err)
		st.Quantity = dec("50")
		require.NoError(t, repos.Stock.Upsert(f.ctx, st))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	st, err := f.query.GetBalance(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, st.Quantity.IsZero())
}

func TestPostgres_RecepcionesYDespachosConcurrentesNoSeBloquean(t *testing.T) {
	f := newPGFixture(t)
	p, w := f.catalog(t)
	f.receive(t, p, w, "10", "2")

	const rounds = 6
	purchaseIDs := make([]string, rounds)
	saleIDs := make([]string, rounds)
	for i := 0; i < rounds; i++ {
		po, err := f.purchases.Create(f.ctx, "tester", inventory.PurchaseInput{
			SupplierID:  "prov-1",
			WarehouseID: w,
			Lines:       []inventory.PurchaseLineInput{{ProductID: p, Quantity: dec("5"), UnitCost: dec("2")}},
		})
		require.NoError(t, err)
		_, err = f.purchases.Approve(f.ctx, po.ID, "tester")
		require.NoError(t, err)
		purchaseIDs[i] = po.ID

		so, err := f.sales.Create(f.ctx, "tester", inventory.SaleInput{
			WarehouseID: w,
			Lines:       []inventory.SaleLineInput{{ProductID: p, Quantity: dec("2"), UnitPrice: dec("3")}},
		})
		require.NoError(t, err)
		_, err = f.sales.Approve(f.ctx, so.ID, "tester")
		require.NoError(t, err)
		saleIDs[i] = so.ID
	}

	var fulfilled atomic.Int32
	var g errgroup.Group
	for i := 0; i < rounds; i++ {
		purchaseID, saleID := purchaseIDs[i], saleIDs[i]
		g.Go(func() error {
			_, err := f.purchases.Receive(f.ctx, purchaseID, "tester", nil)
			return err
		})
		g.Go(func() error {
			_, err := f.sales.Fulfill(f.ctx, saleID, "tester", nil)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			if err != nil {
				return err
			}
			fulfilled.Add(1)
			return nil
		})
	}
	// Un deadlock llegaría aquí como ErrConcurrentModification.
	require.NoError(t, g.Wait())

	expected := dec("40").Sub(dec("2").Mul(decimal.NewFromInt32(fulfilled.Load())))
	st, err := f.query.GetBalance(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(expected), "saldo %s, esperado %s", st.Quantity, expected)

	prod, err := postgres.NewProductRepository(f.pool).GetByID(f.ctx, p)
	require.NoError(t, err)
	assert.True(t, prod.Cost.Equal(dec("2")), "costo %s", prod.Cost)

	rec, err := f.query.Reconcile(f.ctx, p, w)
	require.NoError(t, err)
	assert.True(t, rec.Balanced())
}
