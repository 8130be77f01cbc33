package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo implementación de InventoryLevelRepository sobre PostgreSQL.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

const levelSelect = `
	SELECT s.warehouse_id, s.product_id, p.sku, p.name, s.quantity, s.reserved_quantity, p.reorder_point, s.updated_at
	FROM stock s
	JOIN products p ON p.id = s.product_id`

func (r *InventoryLevelRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryLevel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list inventory levels", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryLevel, error) {
		var l entity.InventoryLevel
		err := row.Scan(&l.WarehouseID, &l.ProductID, &l.SKU, &l.ProductName,
			&l.Quantity, &l.ReservedQuantity, &l.ReorderPoint, &l.UpdatedAt)
		if err != nil {
			return nil, wrapErr("scan inventory level", err)
		}
		return &l, nil
	})
}

func (r *InventoryLevelRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	return r.list(ctx, levelSelect+` WHERE s.warehouse_id = $1 ORDER BY p.sku LIMIT $2 OFFSET $3`, warehouseID, limit, offset)
}

func (r *InventoryLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryLevel, error) {
	return r.list(ctx, levelSelect+` WHERE s.product_id = $1 ORDER BY s.warehouse_id`, productID)
}

// ListLowStock devuelve los productos cuyo stock actual (en la bodega indicada) es menor o igual
// a su punto de reorden. Si warehouseID es vacío, considera el stock agregado de todas las bodegas.
// Ordena por déficit descendente (mayor quiebre primero).
func (r *InventoryLevelRepo) ListLowStock(ctx context.Context, warehouseID string) ([]entity.LowStockItem, error) {
	var (
		query string
		args  []any
	)
	if warehouseID != "" {
		query = `
			SELECT
				p.id, p.sku, p.name,
				$1::text                 AS warehouse_id,
				COALESCE(s.quantity, 0)  AS current_stock,
				p.reorder_point, p.min_stock_level, p.cost
			FROM products p
			LEFT JOIN stock s ON s.product_id = p.id AND s.warehouse_id = $1
			WHERE p.reorder_point > 0
			  AND COALESCE(s.quantity, 0) <= p.reorder_point
			ORDER BY (p.reorder_point - COALESCE(s.quantity, 0)) DESC, p.sku`
		args = []any{warehouseID}
	} else {
		query = `
			SELECT
				p.id, p.sku, p.name,
				''                           AS warehouse_id,
				COALESCE(SUM(s.quantity), 0) AS current_stock,
				p.reorder_point, p.min_stock_level, p.cost
			FROM products p
			LEFT JOIN stock s ON s.product_id = p.id
			WHERE p.reorder_point > 0
			GROUP BY p.id, p.sku, p.name, p.reorder_point, p.min_stock_level, p.cost
			HAVING COALESCE(SUM(s.quantity), 0) <= p.reorder_point
			ORDER BY (p.reorder_point - COALESCE(SUM(s.quantity), 0)) DESC, p.sku`
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list low stock", err)
	}
	defer rows.Close()

	var items []entity.LowStockItem
	for rows.Next() {
		var item entity.LowStockItem
		if err := rows.Scan(
			&item.ProductID, &item.SKU, &item.ProductName, &item.WarehouseID,
			&item.CurrentStock, &item.ReorderPoint, &item.MinStock, &item.UnitCost,
		); err != nil {
			return nil, wrapErr("scan low stock item", err)
		}
		items = append(items, item)
	}
	return items, wrapErr("list low stock", rows.Err())
}
