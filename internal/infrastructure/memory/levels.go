package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*LevelRepo)(nil)

// LevelRepo lecturas de saldos unidas con datos del producto.
type LevelRepo struct{ store *Store }

func level(s entity.Stock, p entity.Product) *entity.InventoryLevel {
	return &entity.InventoryLevel{
		WarehouseID:      s.WarehouseID,
		ProductID:        s.ProductID,
		SKU:              p.SKU,
		ProductName:      p.Name,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		ReorderPoint:     p.ReorderPoint,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (r *LevelRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	var list []*entity.InventoryLevel
	r.store.read(func(st *state) {
		for k, s := range st.stock {
			if k.WarehouseID != warehouseID {
				continue
			}
			list = append(list, level(s, st.products[k.ProductID]))
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, limit, offset), nil
}

func (r *LevelRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryLevel, error) {
	var list []*entity.InventoryLevel
	r.store.read(func(st *state) {
		for k, s := range st.stock {
			if k.ProductID != productID {
				continue
			}
			list = append(list, level(s, st.products[k.ProductID]))
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].WarehouseID < list[j].WarehouseID })
	return list, nil
}

// ListLowStock productos con punto de reorden definido y saldo menor o igual a él.
func (r *LevelRepo) ListLowStock(_ context.Context, warehouseID string) ([]entity.LowStockItem, error) {
	var items []entity.LowStockItem
	r.store.read(func(st *state) {
		for _, p := range st.products {
			if !p.ReorderPoint.IsPositive() {
				continue
			}
			current := decimal.Zero
			for k, s := range st.stock {
				if k.ProductID == p.ID && (warehouseID == "" || k.WarehouseID == warehouseID) {
					current = current.Add(s.Quantity)
				}
			}
			if current.GreaterThan(p.ReorderPoint) {
				continue
			}
			items = append(items, entity.LowStockItem{
				ProductID:    p.ID,
				SKU:          p.SKU,
				ProductName:  p.Name,
				WarehouseID:  warehouseID,
				CurrentStock: current,
				ReorderPoint: p.ReorderPoint,
				MinStock:     p.MinStockLevel,
				UnitCost:     p.Cost,
			})
		}
	})
	sort.Slice(items, func(i, j int) bool {
		di := items[i].ReorderPoint.Sub(items[i].CurrentStock)
		dj := items[j].ReorderPoint.Sub(items[j].CurrentStock)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return items[i].SKU < items[j].SKU
	})
	return items, nil
}
