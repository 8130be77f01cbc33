package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReasonRequest body para rechazar o cancelar un documento.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

// AdjustmentLineRequest línea de ajuste; unit_cost opcional solo en aumentos.
type AdjustmentLineRequest struct {
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"` // increase | decrease
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// AdjustmentRequest body para crear o editar un ajuste.
type AdjustmentRequest struct {
	ReferenceNo string                  `json:"reference_no"`
	WarehouseID string                  `json:"warehouse_id"`
	Reason      string                  `json:"reason"`
	Notes       string                  `json:"notes"`
	Lines       []AdjustmentLineRequest `json:"lines"`
}

type AdjustmentLineResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

type AdjustmentResponse struct {
	ID          string                   `json:"id"`
	ReferenceNo string                   `json:"reference_no"`
	WarehouseID string                   `json:"warehouse_id"`
	Reason      string                   `json:"reason"`
	Notes       string                   `json:"notes"`
	Status      string                   `json:"status"`
	CreatedBy   string                   `json:"created_by"`
	ApprovedBy  string                   `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time               `json:"approved_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Lines       []AdjustmentLineResponse `json:"lines"`
}

// ── Traslados ────────────────────────────────────────────────────────────────

type TransferLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferRequest body para crear o editar un traslado entre bodegas.
type TransferRequest struct {
	ReferenceNo     string                `json:"reference_no"`
	FromWarehouseID string                `json:"from_warehouse_id"`
	ToWarehouseID   string                `json:"to_warehouse_id"`
	Notes           string                `json:"notes"`
	Lines           []TransferLineRequest `json:"lines"`
}

type TransferLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type TransferResponse struct {
	ID                 string                 `json:"id"`
	ReferenceNo        string                 `json:"reference_no"`
	FromWarehouseID    string                 `json:"from_warehouse_id"`
	ToWarehouseID      string                 `json:"to_warehouse_id"`
	Status             string                 `json:"status"`
	Notes              string                 `json:"notes"`
	CancellationReason string                 `json:"cancellation_reason,omitempty"`
	CreatedBy          string                 `json:"created_by"`
	ApprovedAt         *time.Time             `json:"approved_at,omitempty"`
	ShippedAt          *time.Time             `json:"shipped_at,omitempty"`
	ReceivedAt         *time.Time             `json:"received_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Lines              []TransferLineResponse `json:"lines"`
}

// ── Compras ──────────────────────────────────────────────────────────────────

type PurchaseLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseRequest body para crear o editar una orden de compra.
type PurchaseRequest struct {
	ReferenceNo string                `json:"reference_no"`
	SupplierID  string                `json:"supplier_id"`
	WarehouseID string                `json:"warehouse_id"`
	Notes       string                `json:"notes"`
	Lines       []PurchaseLineRequest `json:"lines"`
}

// ReceiveLineRequest cantidades aceptadas (quantity) y rechazadas de una línea.
type ReceiveLineRequest struct {
	LineID           string          `json:"line_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
}

// ReceiveRequest body de recepción; sin líneas recibe todo lo pendiente.
type ReceiveRequest struct {
	Lines []ReceiveLineRequest `json:"lines"`
}

type PurchaseLineResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
	IsFullyReceived  bool            `json:"is_fully_received"`
}

type PurchaseResponse struct {
	ID              string                 `json:"id"`
	ReferenceNo     string                 `json:"reference_no"`
	SupplierID      string                 `json:"supplier_id"`
	WarehouseID     string                 `json:"warehouse_id"`
	Status          string                 `json:"status"`
	Notes           string                 `json:"notes"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	Total           decimal.Decimal        `json:"total"`
	CreatedBy       string                 `json:"created_by"`
	ApprovedBy      string                 `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Lines           []PurchaseLineResponse `json:"lines"`
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRequest body para crear o editar una orden de venta.
type SaleRequest struct {
	ReferenceNo string            `json:"reference_no"`
	CustomerID  string            `json:"customer_id"`
	WarehouseID string            `json:"warehouse_id"`
	Notes       string            `json:"notes"`
	Lines       []SaleLineRequest `json:"lines"`
}

type FulfillLineRequest struct {
	LineID   string          `json:"line_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// FulfillRequest body de despacho; sin líneas despacha todo lo pendiente.
type FulfillRequest struct {
	Lines []FulfillLineRequest `json:"lines"`
}

type SaleLineResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	IsFullyFulfilled  bool            `json:"is_fully_fulfilled"`
}

type SaleResponse struct {
	ID              string             `json:"id"`
	ReferenceNo     string             `json:"reference_no"`
	CustomerID      string             `json:"customer_id"`
	WarehouseID     string             `json:"warehouse_id"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	Total           decimal.Decimal    `json:"total"`
	CreatedBy       string             `json:"created_by"`
	ApprovedBy      string             `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty"`
	ShippedAt       *time.Time         `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Lines           []SaleLineResponse `json:"lines"`
}

// ── Consultas ────────────────────────────────────────────────────────────────

// MovementResponse asiento del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"transaction_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BalanceResponse saldo de un producto en una bodega.
type BalanceResponse struct {
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	SKU              string          `json:"sku,omitempty"`
	ProductName      string          `json:"product_name,omitempty"`
	Quantity         decimal.Decimal `json:"stock_level"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	ReorderPoint     decimal.Decimal `json:"reorder_point"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ReconciliationResponse resultado de comparar saldo contra kardex.
type ReconciliationResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	StockLevel  decimal.Decimal `json:"stock_level"`
	LedgerSum   decimal.Decimal `json:"ledger_sum"`
	Drift       decimal.Decimal `json:"drift"`
	Balanced    bool            `json:"balanced"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id,omitempty"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// InsufficientStockResponse cuerpo 409 cuando un movimiento dejaría saldo negativo.
type InsufficientStockResponse struct {
	Code        string          `json:"code"`
	Message     string          `json:"message"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
	Shortfall   decimal.Decimal `json:"shortfall"`
}
