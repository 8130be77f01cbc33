package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase orden de compra con recepción total o parcial por línea.
type Purchase struct {
	ID              string
	ReferenceNo     string
	SupplierID      string
	WarehouseID     string
	Status          DocumentStatus
	Notes           string
	RejectionReason string
	CancelReason    string
	CreatedBy       string
	ApprovedBy      string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []PurchaseLine
}

// Total suma cantidad * costo unitario de las líneas.
func (p *Purchase) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}
	return total
}

// PurchaseLine línea de compra. ReceivedQuantity = AcceptedQuantity + RejectedQuantity.
type PurchaseLine struct {
	ID               string
	ProductID        string
	Quantity         decimal.Decimal
	UnitCost         decimal.Decimal
	ReceivedQuantity decimal.Decimal
	AcceptedQuantity decimal.Decimal
	RejectedQuantity decimal.Decimal
	IsFullyReceived  bool
}

// Remaining cantidad pendiente por recibir (nunca negativa).
func (l *PurchaseLine) Remaining() decimal.Decimal {
	r := l.Quantity.Sub(l.ReceivedQuantity)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
