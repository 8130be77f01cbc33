package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// PurchaseHandler órdenes de compra y recepciones (protegido).
type PurchaseHandler struct {
	uc *inventory.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

func purchaseInput(in dto.PurchaseRequest) inventory.PurchaseInput {
	lines := make([]inventory.PurchaseLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.PurchaseLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	return inventory.PurchaseInput{
		ReferenceNo: in.ReferenceNo,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Notes:       in.Notes,
		Lines:       lines,
	}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Proveedor, bodega y líneas"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Create(c.Context(), userID, purchaseInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(doc))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Update(c.Context(), c.Params("id"), purchaseInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func (h *PurchaseHandler) Submit(c *fiber.Ctx) error {
	doc, err := h.uc.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func (h *PurchaseHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	doc, err := h.uc.Approve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func (h *PurchaseHandler) Reject(c *fiber.Ctx) error {
	reason, err := reasonFrom(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Reject(c.Context(), c.Params("id"), reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	reason, err := reasonFrom(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Cancel(c.Context(), c.Params("id"), reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func receiveLines(in dto.ReceiveRequest) []inventory.ReceiveLineInput {
	lines := make([]inventory.ReceiveLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.ReceiveLineInput{LineID: l.LineID, Quantity: l.Quantity, RejectedQuantity: l.RejectedQuantity})
	}
	return lines
}

// Receive godoc
// @Summary      Recibir mercancía
// @Description  Sin líneas recibe todo lo pendiente como aceptado. Lo aceptado entra a stock y recalcula el costo promedio.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID de la compra"
// @Param        body  body  dto.ReceiveRequest  false  "Cantidades por línea"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	doc, err := h.uc.Receive(c.Context(), c.Params("id"), userID, receiveLines(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

// ReceivePartial godoc
// @Summary      Recepción parcial
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la compra"
// @Param        body  body  dto.ReceiveRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.PurchaseResponse
// @Router       /api/purchases/{id}/receive-partial [post]
func (h *PurchaseHandler) ReceivePartial(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.ReceivePartial(c.Context(), c.Params("id"), userID, receiveLines(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPurchaseResponse(doc))
}

func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Destroy(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
