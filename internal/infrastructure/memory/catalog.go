package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*productRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

type productRepo struct{ st *state }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.st.skus[p.SKU]; ok {
		return domain.ErrDuplicate
	}
	r.st.products[p.ID] = *p
	r.st.skus[p.SKU] = p.ID
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	p, ok := r.st.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	r.st.products[productID] = p
	return nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	list := make([]*entity.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, limit, offset), nil
}

type warehouseRepo struct{ st *state }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.st.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.st.codes[w.Code]; ok {
		return domain.ErrDuplicate
	}
	r.st.warehouses[w.ID] = *w
	r.st.codes[w.Code] = w.ID
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	list := make([]*entity.Warehouse, 0, len(r.st.warehouses))
	for _, w := range r.st.warehouses {
		w := w
		list = append(list, &w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

// ProductRepo adaptador de productos sobre el Store (cada escritura es su propia transacción).
type ProductRepo struct{ store *Store }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.store.Run(ctx, func(repos inventory.Repos) error { return repos.Products.Create(ctx, p) })
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (p *entity.Product, err error) {
	r.store.read(func(st *state) { p, err = (&productRepo{st: st}).GetByID(ctx, id) })
	return
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.store.Run(ctx, func(repos inventory.Repos) error { return repos.Products.UpdateCost(ctx, productID, cost) })
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) (list []*entity.Product, err error) {
	r.store.read(func(st *state) { list, err = (&productRepo{st: st}).List(ctx, limit, offset) })
	return
}

// WarehouseRepo adaptador de bodegas sobre el Store.
type WarehouseRepo struct{ store *Store }

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.store.Run(ctx, func(repos inventory.Repos) error { return repos.Warehouses.Create(ctx, w) })
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (w *entity.Warehouse, err error) {
	r.store.read(func(st *state) { w, err = (&warehouseRepo{st: st}).GetByID(ctx, id) })
	return
}

func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) (list []*entity.Warehouse, err error) {
	r.store.read(func(st *state) { list, err = (&warehouseRepo{st: st}).List(ctx, limit, offset) })
	return
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
