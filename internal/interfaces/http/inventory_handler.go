package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryHandler consultas de saldos, kardex y reposición (protegido).
type InventoryHandler struct {
	query         *inventory.QueryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query *inventory.QueryUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{query: query, replenishment: replenishment}
}

// GetBalance godoc
// @Summary      Saldo de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	st, err := h.query.GetBalance(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ProductID:        st.ProductID,
		WarehouseID:      st.WarehouseID,
		Quantity:         st.Quantity,
		ReservedQuantity: st.ReservedQuantity,
		UpdatedAt:        st.UpdatedAt,
	})
}

func levelsJSON(c *fiber.Ctx, list []*entity.InventoryLevel) error {
	out := make([]dto.BalanceResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLevelResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// ListByWarehouse godoc
// @Summary      Saldos de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.BalanceResponse
// @Router       /api/inventory/warehouses/{id}/balances [get]
func (h *InventoryHandler) ListByWarehouse(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	list, err := h.query.ListBalancesByWarehouse(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return levelsJSON(c, list)
}

// ListByProduct saldos de un producto en todas las bodegas.
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	list, err := h.query.ListBalancesByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return levelsJSON(c, list)
}

func parseTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Invalid("fecha inválida %q, se espera RFC3339", raw)
	}
	return &t, nil
}

// Movements godoc
// @Summary      Kardex (historial de movimientos)
// @Description  Asientos en orden de inserción. Fechas en RFC3339.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "ID del producto"
// @Param        warehouse_id    query  string  false  "ID de la bodega"
// @Param        reference_type  query  string  false  "adjustment | transfer | purchase | sale"
// @Param        reference_id    query  string  false  "ID del documento"
// @Param        from            query  string  false  "Desde"
// @Param        to              query  string  false  "Hasta"
// @Param        limit           query  int     false  "Límite"  default(50)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, err := parseTime(c.Query("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseTime(c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	filter := entity.MovementFilter{
		ProductID:     c.Query("product_id"),
		WarehouseID:   c.Query("warehouse_id"),
		ReferenceType: entity.DocumentKind(c.Query("reference_type")),
		ReferenceID:   c.Query("reference_id"),
		From:          from,
		To:            to,
		Limit:         c.QueryInt("limit", 0),
		Offset:        c.QueryInt("offset", 0),
	}
	list, err := h.query.LedgerHistory(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Reconcile godoc
// @Summary      Conciliar saldo contra kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.ReconciliationResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.query.Reconcile(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		StockLevel:  r.StockLevel,
		LedgerSum:   r.LedgerSum,
		Drift:       r.Drift,
		Balanced:    r.Balanced(),
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  SKUs en o por debajo del punto de reorden con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = stock global."
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toReplenishmentDTO(s))
	}
	return c.JSON(fiber.Map{
		"total":          len(out),
		"replenishments": out,
	})
}
