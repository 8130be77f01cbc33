package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de asiento en el kardex.
type MovementType string

const (
	MovementAdjustmentIn   MovementType = "adjustment_in"
	MovementAdjustmentOut  MovementType = "adjustment_out"
	MovementTransferOut    MovementType = "transfer_out"
	MovementTransferIn     MovementType = "transfer_in"
	MovementTransferCancel MovementType = "transfer_cancel"
	MovementPurchaseRecv   MovementType = "purchase_receive"
	MovementSaleFulfill    MovementType = "sale_fulfill"
)

// IsValid indica si el tipo es conocido.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementAdjustmentIn, MovementAdjustmentOut,
		MovementTransferOut, MovementTransferIn, MovementTransferCancel,
		MovementPurchaseRecv, MovementSaleFulfill:
		return true
	}
	return false
}

// InventoryMovement es un asiento inmutable del kardex: un cambio firmado de cantidad
// con los saldos antes/después capturados en el mismo paso y el documento que lo originó.
type InventoryMovement struct {
	ID            string
	ProductID     string
	WarehouseID   string
	Type          MovementType
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	ReferenceType DocumentKind
	ReferenceID   string
	UnitID        string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// MovementFilter filtros para el historial del kardex.
type MovementFilter struct {
	ProductID     string
	WarehouseID   string
	ReferenceType DocumentKind
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
