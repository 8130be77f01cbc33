package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer traslado entre bodegas (draft → approved → in_transit → completed, o cancelled).
type Transfer struct {
	ID                 string
	ReferenceNo        string
	FromWarehouseID    string
	ToWarehouseID      string
	Status             DocumentStatus
	Notes              string
	CancellationReason string
	CreatedBy          string
	ApprovedAt         *time.Time
	ShippedAt          *time.Time
	ReceivedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Lines              []TransferLine
}

// TransferLine línea del traslado.
type TransferLine struct {
	ID        string
	ProductID string
	Quantity  decimal.Decimal
}
