package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryLevelRepository consultas de lectura sobre saldos (reportes, UI).
type InventoryLevelRepository interface {
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLevel, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryLevel, error)

	// ListLowStock devuelve los productos cuyo saldo (en la bodega indicada, o agregado si
	// warehouseID es vacío) es menor o igual a su punto de reorden, mayor déficit primero.
	ListLowStock(ctx context.Context, warehouseID string) ([]entity.LowStockItem, error)
}
