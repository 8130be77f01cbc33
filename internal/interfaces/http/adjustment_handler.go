package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AdjustmentHandler ajustes de inventario (protegido).
type AdjustmentHandler struct {
	uc *inventory.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

func adjustmentInput(in dto.AdjustmentRequest) inventory.AdjustmentInput {
	lines := make([]inventory.AdjustmentLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.AdjustmentLineInput{
			ProductID: l.ProductID,
			Type:      entity.AdjustmentType(l.Type),
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return inventory.AdjustmentInput{
		ReferenceNo: in.ReferenceNo,
		WarehouseID: in.WarehouseID,
		Reason:      in.Reason,
		Notes:       in.Notes,
		Lines:       lines,
	}
}

// Create godoc
// @Summary      Crear ajuste de inventario
// @Description  Queda en pending; si la aprobación está desactivada se aplica de inmediato.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Create(c.Context(), userID, adjustmentInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAdjustmentResponse(doc))
}

// GetByID godoc
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustmentResponse(doc))
}

// Update godoc
// @Summary      Editar ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ajuste"
// @Param        body  body  dto.AdjustmentRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [put]
func (h *AdjustmentHandler) Update(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Update(c.Context(), c.Params("id"), adjustmentInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustmentResponse(doc))
}

// Approve godoc
// @Summary      Aprobar ajuste (aplica las líneas al stock)
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      409  {object}  dto.InsufficientStockResponse
// @Router       /api/adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	doc, err := h.uc.Approve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustmentResponse(doc))
}

// Reject godoc
// @Summary      Rechazar ajuste
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del ajuste"
// @Param        body  body  dto.ReasonRequest  false "Motivo"
// @Success      200   {object}  dto.AdjustmentResponse
// @Router       /api/adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	reason, err := reasonFrom(c)
	if err != nil {
		return badBody(c)
	}
	doc, err := h.uc.Reject(c.Context(), c.Params("id"), userID, reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAdjustmentResponse(doc))
}

// Delete godoc
// @Summary      Eliminar ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Param        id   path  string  true  "ID del ajuste"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [delete]
func (h *AdjustmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Destroy(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
