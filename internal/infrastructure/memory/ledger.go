package memory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.StockRepository             = (*stockRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
)

type stockRepo struct{ st *state }

func (r *stockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	k := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
	s, ok := r.st.stock[k]
	if !ok {
		return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero, ReservedQuantity: decimal.Zero}, nil
	}
	return &s, nil
}

// GetForUpdate crea la fila en cero si no existe; el bloqueo lo da la serialización de Run.
func (r *stockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	k := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
	if _, ok := r.st.stock[k]; !ok {
		r.st.stock[k] = entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero, ReservedQuantity: decimal.Zero}
	}
	return r.Get(ctx, productID, warehouseID)
}

func (r *stockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	r.st.stock[s.Key()] = *s
	return nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	for i := range r.st.movements {
		if r.st.movements[i].ID == m.ID {
			return domain.ErrDuplicate
		}
	}
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.InventoryMovement, error) {
	for i := range r.st.movements {
		if r.st.movements[i].ID == id {
			m := r.st.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

// List respeta el orden de inserción, que es el orden cronológico de aplicación.
func (r *movementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for i := range r.st.movements {
		m := r.st.movements[i]
		if !matches(m, f) {
			continue
		}
		list = append(list, &m)
	}
	return page(list, f.Limit, f.Offset), nil
}

func matches(m entity.InventoryMovement, f entity.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID:
		return false
	case f.ReferenceType != "" && m.ReferenceType != f.ReferenceType:
		return false
	case f.ReferenceID != "" && m.ReferenceID != f.ReferenceID:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func (r *movementRepo) SumQuantity(_ context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.st.movements {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}
