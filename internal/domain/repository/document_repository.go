package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AdjustmentRepository persistencia de ajustes con sus líneas.
type AdjustmentRepository interface {
	Create(ctx context.Context, doc *entity.Adjustment) error
	GetByID(ctx context.Context, id string) (*entity.Adjustment, error)
	// GetForUpdate bloquea la cabecera para que la transición valide el estado persistido.
	GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error)
	// Update reescribe cabecera y líneas.
	Update(ctx context.Context, doc *entity.Adjustment) error
	Delete(ctx context.Context, id string) error
}

// TransferRepository persistencia de traslados con sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, doc *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	Update(ctx context.Context, doc *entity.Transfer) error
	Delete(ctx context.Context, id string) error
}

// PurchaseRepository persistencia de compras con sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, doc *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	Update(ctx context.Context, doc *entity.Purchase) error
	Delete(ctx context.Context, id string) error
}

// SaleRepository persistencia de ventas con sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, doc *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, doc *entity.Sale) error
	Delete(ctx context.Context, id string) error
}
