package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Movements   repository.InventoryMovementRepository
	Stock       repository.StockRepository
	Products    repository.ProductRepository
	Warehouses  repository.WarehouseRepository
	Adjustments repository.AdjustmentRepository
	Transfers   repository.TransferRepository
	Purchases   repository.PurchaseRepository
	Sales       repository.SaleRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback y ningún cambio queda persistido; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
