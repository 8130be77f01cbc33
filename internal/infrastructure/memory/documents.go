package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.AdjustmentRepository = (*adjustmentRepo)(nil)
	_ repository.TransferRepository   = (*transferRepo)(nil)
	_ repository.PurchaseRepository   = (*purchaseRepo)(nil)
	_ repository.SaleRepository       = (*saleRepo)(nil)
)

// table filas de documentos; copy separa las líneas para que el caller no comparta memoria con el store.
type table[T any] struct {
	rows map[string]T
	copy func(T) T
}

func (t table[T]) create(id string, doc *T) error {
	if _, ok := t.rows[id]; ok {
		return domain.ErrDuplicate
	}
	t.rows[id] = t.copy(*doc)
	return nil
}

func (t table[T]) get(id string) (*T, error) {
	doc, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	c := t.copy(doc)
	return &c, nil
}

func (t table[T]) update(id string, doc *T) error {
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	t.rows[id] = t.copy(*doc)
	return nil
}

func (t table[T]) delete(id string) error {
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

type adjustmentRepo struct{ st *state }

func (r *adjustmentRepo) t() table[entity.Adjustment] {
	return table[entity.Adjustment]{rows: r.st.adjustments, copy: func(d entity.Adjustment) entity.Adjustment {
		d.Lines = slices.Clone(d.Lines)
		return d
	}}
}

func (r *adjustmentRepo) Create(_ context.Context, d *entity.Adjustment) error { return r.t().create(d.ID, d) }
func (r *adjustmentRepo) GetByID(_ context.Context, id string) (*entity.Adjustment, error) {
	return r.t().get(id)
}
func (r *adjustmentRepo) GetForUpdate(_ context.Context, id string) (*entity.Adjustment, error) {
	return r.t().get(id)
}
func (r *adjustmentRepo) Update(_ context.Context, d *entity.Adjustment) error { return r.t().update(d.ID, d) }
func (r *adjustmentRepo) Delete(_ context.Context, id string) error             { return r.t().delete(id) }

type transferRepo struct{ st *state }

func (r *transferRepo) t() table[entity.Transfer] {
	return table[entity.Transfer]{rows: r.st.transfers, copy: func(d entity.Transfer) entity.Transfer {
		d.Lines = slices.Clone(d.Lines)
		return d
	}}
}

func (r *transferRepo) Create(_ context.Context, d *entity.Transfer) error { return r.t().create(d.ID, d) }
func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	return r.t().get(id)
}
func (r *transferRepo) GetForUpdate(_ context.Context, id string) (*entity.Transfer, error) {
	return r.t().get(id)
}
func (r *transferRepo) Update(_ context.Context, d *entity.Transfer) error { return r.t().update(d.ID, d) }
func (r *transferRepo) Delete(_ context.Context, id string) error           { return r.t().delete(id) }

type purchaseRepo struct{ st *state }

func (r *purchaseRepo) t() table[entity.Purchase] {
	return table[entity.Purchase]{rows: r.st.purchases, copy: func(d entity.Purchase) entity.Purchase {
		d.Lines = slices.Clone(d.Lines)
		return d
	}}
}

func (r *purchaseRepo) Create(_ context.Context, d *entity.Purchase) error { return r.t().create(d.ID, d) }
func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	return r.t().get(id)
}
func (r *purchaseRepo) GetForUpdate(_ context.Context, id string) (*entity.Purchase, error) {
	return r.t().get(id)
}
func (r *purchaseRepo) Update(_ context.Context, d *entity.Purchase) error { return r.t().update(d.ID, d) }
func (r *purchaseRepo) Delete(_ context.Context, id string) error           { return r.t().delete(id) }

type saleRepo struct{ st *state }

func (r *saleRepo) t() table[entity.Sale] {
	return table[entity.Sale]{rows: r.st.sales, copy: func(d entity.Sale) entity.Sale {
		d.Lines = slices.Clone(d.Lines)
		return d
	}}
}

func (r *saleRepo) Create(_ context.Context, d *entity.Sale) error { return r.t().create(d.ID, d) }
func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	return r.t().get(id)
}
func (r *saleRepo) GetForUpdate(_ context.Context, id string) (*entity.Sale, error) {
	return r.t().get(id)
}
func (r *saleRepo) Update(_ context.Context, d *entity.Sale) error { return r.t().update(d.ID, d) }
func (r *saleRepo) Delete(_ context.Context, id string) error       { return r.t().delete(id) }
