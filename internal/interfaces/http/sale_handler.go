package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// SaleHandler órdenes de venta y despachos (protegido).
type SaleHandler struct {
	uc *inventory.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

func saleInput(in dto.SaleRequest) inventory.SaleInput {
	lines := make([]inventory.SaleLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return inventory.SaleInput{
		ReferenceNo: in.ReferenceNo,
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Notes:       in.Notes,
		Lines:       lines,
	}
}

func fulfillLines(in dto.FulfillRequest) []inventory.FulfillLineInput {
	lines := make([]inventory.FulfillLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.FulfillLineInput{LineID: l.LineID, Quantity: l.Quantity})
	}
	return lines
}

// Create godoc
// @Summary      Crear orden de venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Cliente, bodega y líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Create(c.Context(), userID, saleInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(doc))
}

// GetByID godoc
// @Summary      Obtener orden de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Update(c.Context(), c.Params("id"), saleInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	doc, err := h.uc.Approve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Reject(c *fiber.Ctx) error {
	reason, err := reasonFrom(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Reject(c.Context(), c.Params("id"), reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	reason, err := reasonFrom(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"), reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

// Fulfill godoc
// @Summary      Despachar venta
// @Description  Sin líneas despacha todo lo pendiente. Verifica disponibilidad aunque se permita stock negativo.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID de la venta"
// @Param        body  body  dto.FulfillRequest  false  "Cantidades por línea"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/sales/{id}/fulfill [post]
func (h *SaleHandler) Fulfill(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.FulfillRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	doc, err := h.uc.Fulfill(c.Context(), c.Params("id"), userID, fulfillLines(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

// FulfillPartial godoc
// @Summary      Despacho parcial
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la venta"
// @Param        body  body  dto.FulfillRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/sales/{id}/fulfill-partial [post]
func (h *SaleHandler) FulfillPartial(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.FulfillRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.FulfillPartial(c.Context(), c.Params("id"), userID, fulfillLines(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Ship(c *fiber.Ctx) error {
	doc, err := h.uc.Ship(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Deliver(c *fiber.Ctx) error {
	doc, err := h.uc.Deliver(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(doc))
}

func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Destroy(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
