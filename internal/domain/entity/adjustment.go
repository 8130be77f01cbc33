package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType dirección de la línea de ajuste.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// Adjustment ajuste de inventario sobre una bodega (pending → approved | rejected).
type Adjustment struct {
	ID          string
	ReferenceNo string
	WarehouseID string
	Reason      string
	Notes       string
	Status      DocumentStatus
	CreatedBy   string
	ApprovedBy  string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []AdjustmentLine
}

// AdjustmentLine línea del ajuste. UnitCost opcional: si viene en un aumento, se recalcula el costo.
type AdjustmentLine struct {
	ID        string
	ProductID string
	Type      AdjustmentType
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
}
