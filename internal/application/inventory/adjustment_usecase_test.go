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

func TestAdjustment_ApproveAplicaLineasYCosto(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines: []inventory.AdjustmentLineInput{
			{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("8"), UnitCost: ptr("4")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, adj.Status)
	assert.NotEmpty(t, adj.ReferenceNo)
	assertDec(t, "0", f.balance(t, p, w), "pending no mueve stock")

	adj, err = f.adjustments.Approve(f.ctx, adj.ID, "approver")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, adj.Status)
	assert.Equal(t, "approver", adj.ApprovedBy)
	require.NotNil(t, adj.ApprovedAt)

	assertDec(t, "8", f.balance(t, p, w))
	assertDec(t, "4", f.cost(t, p))

	movs := f.ledger(t, entity.MovementFilter{ReferenceType: entity.DocumentAdjustment, ReferenceID: adj.ID})
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementAdjustmentIn, movs[0].Type)
	assert.Equal(t, "approver", movs[0].CreatedBy)
	f.assertConsistent(t, p, w)
}

func TestAdjustment_AumentoSinCostoNoCambiaCostoPromedio(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")
	f.stockIn(t, p, w, "10", "5")

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("10")}},
	})
	require.NoError(t, err)
	_, err = f.adjustments.Approve(f.ctx, adj.ID, actor)
	require.NoError(t, err)

	assertDec(t, "20", f.balance(t, p, w))
	assertDec(t, "5", f.cost(t, p))
}

func TestAdjustment_DisminucionInsuficienteHaceRollback(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p1 := f.product(t, "SKU-1", "0", "0")
	p2 := f.product(t, "SKU-2", "0", "0")
	w := f.warehouse(t, "W1")
	f.stockIn(t, p1, w, "10", "1")
	f.stockIn(t, p2, w, "2", "1")

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines: []inventory.AdjustmentLineInput{
			{ProductID: p1, Type: entity.AdjustmentDecrease, Quantity: d("3")},
			{ProductID: p2, Type: entity.AdjustmentDecrease, Quantity: d("5")},
		},
	})
	require.NoError(t, err)
	before := len(f.ledger(t, entity.MovementFilter{Limit: 500}))

	_, err = f.adjustments.Approve(f.ctx, adj.ID, actor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, p2, se.ProductID)
	assertDec(t, "5", se.Requested)
	assertDec(t, "2", se.Available)
	assertDec(t, "3", se.Shortfall())

	// Ninguna línea quedó aplicada y el documento sigue pendiente.
	assertDec(t, "10", f.balance(t, p1, w))
	assertDec(t, "2", f.balance(t, p2, w))
	assert.Len(t, f.ledger(t, entity.MovementFilter{Limit: 500}), before)
	got, err := f.adjustments.Get(f.ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
}

func TestAdjustment_EstadosTerminalesSonInmutables(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")
	in := inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("1")}},
	}

	approved, err := f.adjustments.Create(f.ctx, actor, in)
	require.NoError(t, err)
	_, err = f.adjustments.Approve(f.ctx, approved.ID, actor)
	require.NoError(t, err)

	_, err = f.adjustments.Approve(f.ctx, approved.ID, actor)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "segunda aprobación")
	_, err = f.adjustments.Reject(f.ctx, approved.ID, actor, "tarde")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	_, err = f.adjustments.Update(f.ctx, approved.ID, in)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.True(t, errors.Is(f.adjustments.Destroy(f.ctx, approved.ID), domain.ErrInvalidTransition))
	assertDec(t, "1", f.balance(t, p, w), "la segunda aprobación no duplicó el movimiento")

	rejected, err := f.adjustments.Create(f.ctx, actor, in)
	require.NoError(t, err)
	rejected, err = f.adjustments.Reject(f.ctx, rejected.ID, actor, "conteo erróneo")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, rejected.Status)
	assert.Contains(t, rejected.Notes, "conteo erróneo")
	_, err = f.adjustments.Approve(f.ctx, rejected.ID, actor)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assertDec(t, "1", f.balance(t, p, w))
}

func TestAdjustment_UpdateYDestroyEnPending(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		ReferenceNo: "ADJ-A",
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("1")}},
	})
	require.NoError(t, err)

	adj, err = f.adjustments.Update(f.ctx, adj.ID, inventory.AdjustmentInput{
		WarehouseID: w,
		Reason:      "recuento",
		Lines: []inventory.AdjustmentLineInput{
			{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("3")},
			{ProductID: p, Type: entity.AdjustmentDecrease, Quantity: d("1")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ADJ-A", adj.ReferenceNo)
	require.Len(t, adj.Lines, 2)

	_, err = f.adjustments.Approve(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	assertDec(t, "2", f.balance(t, p, w))

	other, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("1")}},
	})
	require.NoError(t, err)
	require.NoError(t, f.adjustments.Destroy(f.ctx, other.ID))
	_, err = f.adjustments.Get(f.ctx, other.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAdjustment_Validaciones(t *testing.T) {
	settings := inventory.DefaultSettings()
	settings.RequireReasonForAdjustments = true
	f := newFixture(t, settings)
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")
	line := inventory.AdjustmentLineInput{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("1")}

	cases := map[string]inventory.AdjustmentInput{
		"sin líneas":               {WarehouseID: w, Reason: "x"},
		"sin motivo":               {WarehouseID: w, Lines: []inventory.AdjustmentLineInput{line}},
		"cantidad cero":            {WarehouseID: w, Reason: "x", Lines: []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("0")}}},
		"tipo desconocido":         {WarehouseID: w, Reason: "x", Lines: []inventory.AdjustmentLineInput{{ProductID: p, Type: "swap", Quantity: d("1")}}},
		"cantidad con 5 decimales": {WarehouseID: w, Reason: "x", Lines: []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("0.00004")}}},
		"costo con 7 decimales":    {WarehouseID: w, Reason: "x", Lines: []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("1"), UnitCost: ptr("0.0000001")}}},
	}
	for name, in := range cases {
		_, err := f.adjustments.Create(f.ctx, actor, in)
		assert.Truef(t, errors.Is(err, domain.ErrInvalidInput), "%s: %v", name, err)
	}

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w, Reason: "x",
		Lines: []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("0.1000"), UnitCost: ptr("1.250000")}},
	})
	require.NoError(t, err, "los ceros a la derecha no cuentan como decimales")
	assertDec(t, "0.1", adj.Lines[0].Quantity)

	_, err = f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: "no-existe", Reason: "x", Lines: []inventory.AdjustmentLineInput{line},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAdjustment_SinAprobacionSeAplicaAlCrear(t *testing.T) {
	settings := inventory.DefaultSettings()
	settings.RequireApprovalForAdjustments = false
	f := newFixture(t, settings)
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentIncrease, Quantity: d("4"), UnitCost: ptr("2")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, adj.Status)
	assertDec(t, "4", f.balance(t, p, w))

	// Si falla la aplicación, tampoco queda el documento.
	_, err = f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentDecrease, Quantity: d("9")}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assertDec(t, "4", f.balance(t, p, w))
}

func TestAdjustment_StockNegativoPermitido(t *testing.T) {
	settings := inventory.DefaultSettings()
	settings.AllowNegativeStock = true
	f := newFixture(t, settings)
	p := f.product(t, "SKU-1", "0", "0")
	w := f.warehouse(t, "W1")

	adj, err := f.adjustments.Create(f.ctx, actor, inventory.AdjustmentInput{
		WarehouseID: w,
		Lines:       []inventory.AdjustmentLineInput{{ProductID: p, Type: entity.AdjustmentDecrease, Quantity: d("3")}},
	})
	require.NoError(t, err)
	_, err = f.adjustments.Approve(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	assertDec(t, "-3", f.balance(t, p, w))

	// Con saldo negativo el costo previo no pondera: manda el costo de entrada.
	f.stockIn(t, p, w, "5", "7")
	assertDec(t, "2", f.balance(t, p, w))
	assertDec(t, "7", f.cost(t, p))
	f.assertConsistent(t, p, w)
}
