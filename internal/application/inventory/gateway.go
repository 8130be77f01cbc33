package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// MovementCall una mutación firmada sobre el saldo (producto, bodega).
// UnitCost solo se informa en entradas con costo (recepción de compras, ajustes costeados).
// Strict exige saldo suficiente aunque la política permita stock negativo.
type MovementCall struct {
	ProductID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	Type          entity.MovementType
	ReferenceType entity.DocumentKind
	ReferenceID   string
	Notes         string
	Actor         string
	Strict        bool
}

func (c MovementCall) key() entity.StockKey {
	return entity.StockKey{ProductID: c.ProductID, WarehouseID: c.WarehouseID}
}

func (c MovementCall) costed() bool {
	return c.UnitCost != nil && c.Quantity.IsPositive()
}

// Decimales que admiten las columnas de cantidad y de costo.
const (
	QuantityScale int32 = 4
	CostScale     int32 = 6
)

// exceedsScale indica si v tiene más decimales significativos que places.
func exceedsScale(v decimal.Decimal, places int32) bool {
	return !v.Equal(v.Truncate(places))
}

// StockGateway único punto de mutación de saldos: lee con bloqueo, valida la política,
// escribe el saldo, agrega el asiento al kardex y, en entradas con costo, recalcula el costo promedio.
type StockGateway struct {
	settings Settings
	now      func() time.Time
}

// NewStockGateway construye el gateway con las políticas dadas.
func NewStockGateway(settings Settings) *StockGateway {
	return &StockGateway{settings: settings, now: time.Now}
}

// ApplyMovement aplica una mutación usando los repositorios de la transacción del caller.
func (g *StockGateway) ApplyMovement(ctx context.Context, repos Repos, call MovementCall) (*entity.InventoryMovement, error) {
	if call.ProductID == "" || call.WarehouseID == "" {
		return nil, domain.Invalid("producto y bodega son obligatorios")
	}
	if call.Quantity.IsZero() {
		return nil, domain.Invalid("la cantidad del movimiento no puede ser cero")
	}
	if exceedsScale(call.Quantity, QuantityScale) {
		return nil, domain.Invalid("la cantidad admite máximo %d decimales", QuantityScale)
	}
	if !call.Type.IsValid() {
		return nil, domain.Invalid("tipo de movimiento desconocido %q", call.Type)
	}
	if call.UnitCost != nil && call.UnitCost.IsNegative() {
		return nil, domain.Invalid("costo unitario negativo")
	}
	if call.UnitCost != nil && exceedsScale(*call.UnitCost, CostScale) {
		return nil, domain.Invalid("el costo unitario admite máximo %d decimales", CostScale)
	}

	var (
		product *entity.Product
		err     error
	)
	if call.costed() {
		product, err = repos.Products.GetForUpdate(ctx, call.ProductID)
	} else {
		product, err = repos.Products.GetByID(ctx, call.ProductID)
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	// Bloquea (o crea en cero y bloquea) la fila del saldo.
	stock, err := repos.Stock.GetForUpdate(ctx, call.ProductID, call.WarehouseID)
	if err != nil {
		return nil, err
	}
	before := stock.Quantity
	after := before.Add(call.Quantity)
	if call.Quantity.IsNegative() && after.IsNegative() && (call.Strict || !g.settings.AllowNegativeStock) {
		available := before
		if available.IsNegative() {
			available = decimal.Zero
		}
		return nil, &domain.InsufficientStockError{
			ProductID:   call.ProductID,
			WarehouseID: call.WarehouseID,
			Requested:   call.Quantity.Neg(),
			Available:   available,
		}
	}

	now := g.now()
	stock.Quantity = after
	stock.UpdatedAt = now
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	unitCost := product.Cost
	if call.UnitCost != nil {
		unitCost = *call.UnitCost
	}
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		ProductID:     call.ProductID,
		WarehouseID:   call.WarehouseID,
		Type:          call.Type,
		Quantity:      call.Quantity,
		StockBefore:   before,
		StockAfter:    after,
		UnitCost:      unitCost,
		TotalCost:     call.Quantity.Mul(unitCost),
		ReferenceType: call.ReferenceType,
		ReferenceID:   call.ReferenceID,
		UnitID:        product.UnitID,
		Notes:         call.Notes,
		CreatedBy:     call.Actor,
		CreatedAt:     now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	if call.costed() {
		newCost := domaininv.CostCalculator(before, product.Cost, call.Quantity, *call.UnitCost)
		if err := repos.Products.UpdateCost(ctx, call.ProductID, newCost); err != nil {
			return nil, err
		}
	}
	return mov, nil
}

// ApplyAll aplica todas las mutaciones de una transición. Primero bloquea productos con costo y
// luego saldos, ambos en orden (product_id, warehouse_id), para que dos transiciones concurrentes
// tomen los bloqueos en el mismo orden. Cualquier error aborta el lote completo.
func (g *StockGateway) ApplyAll(ctx context.Context, repos Repos, calls []MovementCall) ([]*entity.InventoryMovement, error) {
	ordered := make([]MovementCall, len(calls))
	copy(ordered, calls)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].key().Less(ordered[j].key())
	})

	lockedProducts := make(map[string]bool)
	for _, c := range ordered {
		if !c.costed() || lockedProducts[c.ProductID] {
			continue
		}
		lockedProducts[c.ProductID] = true
	}
	productIDs := make([]string, 0, len(lockedProducts))
	for id := range lockedProducts {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)
	for _, id := range productIDs {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	seen := make(map[entity.StockKey]bool)
	for _, c := range ordered {
		k := c.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		if _, err := repos.Stock.GetForUpdate(ctx, k.ProductID, k.WarehouseID); err != nil {
			return nil, err
		}
	}

	movements := make([]*entity.InventoryMovement, 0, len(ordered))
	for _, c := range ordered {
		mov, err := g.ApplyMovement(ctx, repos, c)
		if err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}
	return movements, nil
}
