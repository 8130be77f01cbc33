package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryMovementRepository puerto del kardex. Solo inserción y lectura: los asientos son inmutables.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.InventoryMovement, error)
	// SumQuantity suma las cantidades firmadas del par (producto, bodega).
	SumQuantity(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}
