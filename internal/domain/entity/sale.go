package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale orden de venta con despacho (fulfillment) total o parcial por línea.
type Sale struct {
	ID              string
	ReferenceNo     string
	CustomerID      string
	WarehouseID     string
	Status          DocumentStatus
	Notes           string
	RejectionReason string
	CancelReason    string
	CreatedBy       string
	ApprovedBy      string
	ApprovedAt      *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []SaleLine
}

// Total suma cantidad * precio unitario de las líneas.
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}

// SaleLine línea de venta.
type SaleLine struct {
	ID                string
	ProductID         string
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	FulfilledQuantity decimal.Decimal
	IsFullyFulfilled  bool
}

// Remaining cantidad pendiente por despachar (nunca negativa).
func (l *SaleLine) Remaining() decimal.Decimal {
	r := l.Quantity.Sub(l.FulfilledQuantity)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
