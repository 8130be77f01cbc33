package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC     *usecase.WarehouseUseCase
	ProductUC       *usecase.ProductUseCase
	AdjustmentUC    *inventory.AdjustmentUseCase
	TransferUC      *inventory.TransferUseCase
	PurchaseUC      *inventory.PurchaseUseCase
	SaleUC          *inventory.SaleUseCase
	QueryUC         *inventory.QueryUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Ajustes
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Put("/:id", adjustmentHandler.Update)
	adjustments.Delete("/:id", adjustmentHandler.Delete)
	adjustments.Post("/:id/approve", adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", adjustmentHandler.Reject)

	// Traslados
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id", transferHandler.Update)
	transfers.Delete("/:id", transferHandler.Delete)
	transfers.Post("/:id/approve", transferHandler.Approve)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Compras
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)
	purchases.Post("/:id/submit", purchaseHandler.Submit)
	purchases.Post("/:id/approve", purchaseHandler.Approve)
	purchases.Post("/:id/reject", purchaseHandler.Reject)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/receive-partial", purchaseHandler.ReceivePartial)

	// Ventas
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id", saleHandler.Update)
	sales.Delete("/:id", saleHandler.Delete)
	sales.Post("/:id/submit", saleHandler.Submit)
	sales.Post("/:id/approve", saleHandler.Approve)
	sales.Post("/:id/reject", saleHandler.Reject)
	sales.Post("/:id/cancel", saleHandler.Cancel)
	sales.Post("/:id/fulfill", saleHandler.Fulfill)
	sales.Post("/:id/fulfill-partial", saleHandler.FulfillPartial)
	sales.Post("/:id/ship", saleHandler.Ship)
	sales.Post("/:id/deliver", saleHandler.Deliver)

	// Saldos y kardex
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.QueryUC, deps.ReplenishmentUC)
	invGroup.Get("/balance", inventoryHandler.GetBalance)
	invGroup.Get("/warehouses/:id/balances", inventoryHandler.ListByWarehouse)
	invGroup.Get("/products/:id/balances", inventoryHandler.ListByProduct)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Get("/reconcile", inventoryHandler.Reconcile)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
}
