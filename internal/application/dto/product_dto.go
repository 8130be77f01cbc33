package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	UnitID        string          `json:"unit_id"`
	Price         decimal.Decimal `json:"price"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
}

// ProductResponse salida de un producto. Cost es el costo promedio ponderado vigente.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	UnitID        string          `json:"unit_id"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
