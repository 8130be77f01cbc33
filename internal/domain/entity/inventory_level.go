package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLevel vista de lectura del saldo de un producto en una bodega, con datos del producto.
type InventoryLevel struct {
	WarehouseID      string
	ProductID        string
	SKU              string
	ProductName      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	ReorderPoint     decimal.Decimal
	UpdatedAt        time.Time
}

// LowStockItem producto cuyo saldo está en o por debajo del punto de reorden.
type LowStockItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	WarehouseID  string // vacío cuando es agregado de todas las bodegas
	CurrentStock decimal.Decimal
	ReorderPoint decimal.Decimal
	MinStock     decimal.Decimal
	UnitCost     decimal.Decimal
}
