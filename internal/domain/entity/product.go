package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// Cost es el costo promedio ponderado; solo lo modifica el motor de costeo al recibir stock.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	UnitID        string
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal // costo promedio ponderado (inicia en 0)
	MinStockLevel decimal.Decimal
	ReorderPoint  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
