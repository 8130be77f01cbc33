package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 500
)

// Reconciliation compara el saldo materializado con la suma del kardex.
type Reconciliation struct {
	ProductID   string
	WarehouseID string
	StockLevel  decimal.Decimal
	LedgerSum   decimal.Decimal
	Drift       decimal.Decimal // StockLevel - LedgerSum
}

// Balanced indica que saldo y kardex coinciden.
func (r Reconciliation) Balanced() bool { return r.Drift.IsZero() }

// QueryUseCase lecturas de saldos y kardex. No modifica estado.
type QueryUseCase struct {
	tx     TxRunner
	levels repository.InventoryLevelRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(tx TxRunner, levels repository.InventoryLevelRepository) *QueryUseCase {
	return &QueryUseCase{tx: tx, levels: levels}
}

// GetBalance saldo de un producto en una bodega; cero si nunca tuvo movimientos.
func (uc *QueryUseCase) GetBalance(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.Invalid("producto y bodega son obligatorios")
	}
	var stock *entity.Stock
	err := uc.tx.Run(ctx, func(repos Repos) error {
		if err := checkProduct(ctx, repos, productID); err != nil {
			return err
		}
		wh, err := repos.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		stock, err = repos.Stock.Get(ctx, productID, warehouseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// ListBalancesByWarehouse saldos de una bodega con datos del producto.
func (uc *QueryUseCase) ListBalancesByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	if warehouseID == "" {
		return nil, domain.Invalid("warehouse_id es obligatorio")
	}
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	return uc.levels.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListBalancesByProduct saldos de un producto en todas las bodegas.
func (uc *QueryUseCase) ListBalancesByProduct(ctx context.Context, productID string) ([]*entity.InventoryLevel, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id es obligatorio")
	}
	return uc.levels.ListByProduct(ctx, productID)
}

// LedgerHistory asientos del kardex en orden cronológico.
func (uc *QueryUseCase) LedgerHistory(ctx context.Context, filter entity.MovementFilter) ([]*entity.InventoryMovement, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("rango de fechas inválido")
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLedgerLimit
	}
	if filter.Limit > maxLedgerLimit {
		filter.Limit = maxLedgerLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	var list []*entity.InventoryMovement
	err := uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		list, err = repos.Movements.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Reconcile verifica que el saldo del par sea igual a la suma de sus asientos.
func (uc *QueryUseCase) Reconcile(ctx context.Context, productID, warehouseID string) (*Reconciliation, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.Invalid("producto y bodega son obligatorios")
	}
	var rec *Reconciliation
	err := uc.tx.Run(ctx, func(repos Repos) error {
		stock, err := repos.Stock.Get(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		sum, err := repos.Movements.SumQuantity(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		rec = &Reconciliation{
			ProductID:   productID,
			WarehouseID: warehouseID,
			StockLevel:  stock.Quantity,
			LedgerSum:   sum,
			Drift:       stock.Quantity.Sub(sum),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
