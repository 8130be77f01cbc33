package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es el saldo actual de un producto en una bodega (caché materializada del kardex).
// Quantity siempre coincide con la suma de cantidades firmadas en inventory_movements para el par.
type Stock struct {
	ProductID        string
	WarehouseID      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// Key identifica el par (producto, bodega).
func (s *Stock) Key() StockKey {
	return StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}

// StockKey par (producto, bodega); orden estable para tomar bloqueos.
type StockKey struct {
	ProductID   string
	WarehouseID string
}

// Less orden por product_id y luego warehouse_id.
func (k StockKey) Less(o StockKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.WarehouseID < o.WarehouseID
}
