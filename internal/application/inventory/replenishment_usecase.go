package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// idealStockFactor multiplicador sobre el punto de reorden para el stock objetivo.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentSuggestion producto en o bajo el punto de reorden con la cantidad sugerida de pedido.
type ReplenishmentSuggestion struct {
	ProductID          string
	SKU                string
	ProductName        string
	WarehouseID        string
	CurrentStock       decimal.Decimal
	ReorderPoint       decimal.Decimal
	MinStock           decimal.Decimal
	IdealStock         decimal.Decimal // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal // IdealStock - CurrentStock
	UnitCost           decimal.Decimal
	EstimatedOrderCost decimal.Decimal
	Priority           int // 1 = más urgente
}

// ReplenishmentUseCase genera la lista de stock bajo para una bodega o para todas.
type ReplenishmentUseCase struct {
	levelRepo repository.InventoryLevelRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(levelRepo repository.InventoryLevelRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{levelRepo: levelRepo}
}

// GenerateReplenishmentList devuelve los productos bajo punto de reorden con la cantidad
// sugerida de pedido. warehouseID vacío agrega el stock de todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]ReplenishmentSuggestion, error) {
	rawItems, err := uc.levelRepo.ListLowStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	suggestions := make([]ReplenishmentSuggestion, 0, len(rawItems))
	for _, item := range rawItems {
		idealStock := item.ReorderPoint.Mul(idealStockFactor)
		suggestedQty := idealStock.Sub(item.CurrentStock)
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, ReplenishmentSuggestion{
			ProductID:          item.ProductID,
			SKU:                item.SKU,
			ProductName:        item.ProductName,
			WarehouseID:        item.WarehouseID,
			CurrentStock:       item.CurrentStock,
			ReorderPoint:       item.ReorderPoint,
			MinStock:           item.MinStock,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.UnitCost,
			EstimatedOrderCost: suggestedQty.Mul(item.UnitCost),
		})
	}

	// Primero los que están bajo el stock mínimo, luego mayor déficit, luego SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		belowA := a.CurrentStock.LessThan(a.MinStock)
		belowB := b.CurrentStock.LessThan(b.MinStock)
		if belowA != belowB {
			return belowA
		}
		defA := a.ReorderPoint.Sub(a.CurrentStock)
		defB := b.ReorderPoint.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.SKU < b.SKU
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
