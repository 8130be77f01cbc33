package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestTransfer_CicloCompletoConservaCantidades(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	src := f.warehouse(t, "SRC")
	dst := f.warehouse(t, "DST")
	f.stockIn(t, p, src, "10", "3")

	tr, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src,
		ToWarehouseID:   dst,
		Lines:           []inventory.TransferLineInput{{ProductID: p, Quantity: d("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, tr.Status)

	tr, err = f.transfers.Approve(f.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, tr.Status)
	assertDec(t, "10", f.balance(t, p, src), "aprobar no mueve stock")

	tr, err = f.transfers.Ship(f.ctx, tr.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInTransit, tr.Status)
	require.NotNil(t, tr.ShippedAt)
	assertDec(t, "6", f.balance(t, p, src))
	assertDec(t, "0", f.balance(t, p, dst))

	tr, err = f.transfers.Receive(f.ctx, tr.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, tr.Status)
	assertDec(t, "6", f.balance(t, p, src))
	assertDec(t, "4", f.balance(t, p, dst))

	movs := f.ledger(t, entity.MovementFilter{ReferenceType: entity.DocumentTransfer, ReferenceID: tr.ID})
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTransferOut, movs[0].Type)
	assertDec(t, "-4", movs[0].Quantity)
	assert.Equal(t, entity.MovementTransferIn, movs[1].Type)
	assertDec(t, "4", movs[1].Quantity)
	assertDec(t, "0", movs[0].Quantity.Add(movs[1].Quantity), "traslado neutro en el total")

	assertDec(t, "3", f.cost(t, p), "el traslado no recalcula costo")
	f.assertConsistent(t, p, src)
	f.assertConsistent(t, p, dst)

	_, err = f.transfers.Cancel(f.ctx, tr.ID, actor, "tarde")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestTransfer_CancelarEnTransitoRepone(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	src := f.warehouse(t, "SRC")
	dst := f.warehouse(t, "DST")
	f.stockIn(t, p, src, "5", "1")

	tr, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src, ToWarehouseID: dst,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("5")}},
	})
	require.NoError(t, err)
	_, err = f.transfers.Approve(f.ctx, tr.ID)
	require.NoError(t, err)
	_, err = f.transfers.Ship(f.ctx, tr.ID, actor)
	require.NoError(t, err)
	assertDec(t, "0", f.balance(t, p, src))

	tr, err = f.transfers.Cancel(f.ctx, tr.ID, actor, "camión averiado")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, tr.Status)
	assert.Equal(t, "camión averiado", tr.CancellationReason)
	assertDec(t, "5", f.balance(t, p, src))
	assertDec(t, "0", f.balance(t, p, dst))

	movs := f.ledger(t, entity.MovementFilter{ReferenceID: tr.ID})
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTransferCancel, movs[1].Type)
	assert.Equal(t, src, movs[1].WarehouseID)

	_, err = f.transfers.Receive(f.ctx, tr.ID, actor)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	f.assertConsistent(t, p, src)
}

func TestTransfer_CancelarAntesDeDespacharNoMueveStock(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	src := f.warehouse(t, "SRC")
	dst := f.warehouse(t, "DST")
	f.stockIn(t, p, src, "5", "1")

	tr, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src, ToWarehouseID: dst,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("2")}},
	})
	require.NoError(t, err)
	_, err = f.transfers.Cancel(f.ctx, tr.ID, actor, "")
	require.NoError(t, err)
	assert.Empty(t, f.ledger(t, entity.MovementFilter{ReferenceID: tr.ID}))
	assertDec(t, "5", f.balance(t, p, src))
}

func TestTransfer_AprobacionVerificaStockAgregado(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	src := f.warehouse(t, "SRC")
	dst := f.warehouse(t, "DST")
	f.stockIn(t, p, src, "5", "1")

	// Dos líneas del mismo producto: 3 + 3 > 5.
	tr, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src, ToWarehouseID: dst,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("3")}, {ProductID: p, Quantity: d("3")}},
	})
	require.NoError(t, err)

	_, err = f.transfers.Approve(f.ctx, tr.ID)
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assertDec(t, "6", se.Requested)
	assertDec(t, "5", se.Available)

	got, err := f.transfers.Get(f.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, got.Status)
}

func TestTransfer_DespachoFallaSiElStockCambioTrasAprobar(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	src := f.warehouse(t, "SRC")
	dst := f.warehouse(t, "DST")
	f.stockIn(t, p, src, "5", "1")

	tr, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src, ToWarehouseID: dst,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("4")}},
	})
	require.NoError(t, err)
	_, err = f.transfers.Approve(f.ctx, tr.ID)
	require.NoError(t, err)

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: src,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentDecrease, Quantity: d("3")}},
	})
	require.NoError(t, err)
	_, err = f.adjustments.Approve(f.ctx, adj.ID, actor)
	require.NoError(t, err)

	_, err = f.transfers.Ship(f.ctx, tr.ID, actor)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	got, err := f.transfers.Get(f.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, got.Status)
	assertDec(t, "2", f.balance(t, p, src))
}

func TestTransfer_Validaciones(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")

	_, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: w, ToWarehouseID: w,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("1")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "misma bodega")

	_, err = f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: w, ToWarehouseID: "otra",
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("-1")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad negativa")

	_, err = f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: w, ToWarehouseID: "otra",
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("1.00005")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "más de 4 decimales")
}

func TestTransfer_SinAprobacionQuedaAprobadoAlCrear(t *testing.T) {
	settings := inventory.DefaultSettings()
	settings.RequireApprovalForTransfers = false
	f := newFixture(t, settings)
	p := f.product(t, "SKU-1", "0", "0")
	src := f.warehouse(t, "SRC")
	dst := f.warehouse(t, "DST")
	f.stockIn(t, p, src, "2", "1")

	tr, err := f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src, ToWarehouseID: dst,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("2")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, tr.Status)

	_, err = f.transfers.Create(f.ctx, actor, inventory.TransferInput{
		FromWarehouseID: src, ToWarehouseID: dst,
		Lines: []inventory.TransferLineInput{{ProductID: p, Quantity: d("3")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}
