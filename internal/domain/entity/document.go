package entity

// DocumentKind tipo de documento de movimiento; también es el reference_type del kardex.
type DocumentKind string

const (
	DocumentAdjustment DocumentKind = "adjustment"
	DocumentTransfer   DocumentKind = "transfer"
	DocumentPurchase   DocumentKind = "purchase"
	DocumentSale       DocumentKind = "sale"
)

// DocumentStatus estado del flujo de un documento.
type DocumentStatus string

const (
	StatusDraft             DocumentStatus = "draft"
	StatusPending           DocumentStatus = "pending"
	StatusPendingApproval   DocumentStatus = "pending_approval"
	StatusApproved          DocumentStatus = "approved"
	StatusInTransit         DocumentStatus = "in_transit"
	StatusCompleted         DocumentStatus = "completed"
	StatusPartiallyReceived DocumentStatus = "partially_received"
	StatusReceived          DocumentStatus = "received"
	StatusPartiallyFulfill  DocumentStatus = "partially_fulfilled"
	StatusFulfilled         DocumentStatus = "fulfilled"
	StatusShipped           DocumentStatus = "shipped"
	StatusDelivered         DocumentStatus = "delivered"
	StatusCancelled         DocumentStatus = "cancelled"
	StatusRejected          DocumentStatus = "rejected"
)
