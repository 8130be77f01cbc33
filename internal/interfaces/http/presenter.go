package http

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func toAdjustmentResponse(d *entity.Adjustment) dto.AdjustmentResponse {
	lines := make([]dto.AdjustmentLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.AdjustmentLineResponse{
			ID: l.ID, ProductID: l.ProductID, Type: string(l.Type), Quantity: l.Quantity, UnitCost: l.UnitCost,
		})
	}
	return dto.AdjustmentResponse{
		ID:          d.ID,
		ReferenceNo: d.ReferenceNo,
		WarehouseID: d.WarehouseID,
		Reason:      d.Reason,
		Notes:       d.Notes,
		Status:      string(d.Status),
		CreatedBy:   d.CreatedBy,
		ApprovedBy:  d.ApprovedBy,
		ApprovedAt:  d.ApprovedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Lines:       lines,
	}
}

func toTransferResponse(d *entity.Transfer) dto.TransferResponse {
	lines := make([]dto.TransferLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.TransferLineResponse{ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return dto.TransferResponse{
		ID:                 d.ID,
		ReferenceNo:        d.ReferenceNo,
		FromWarehouseID:    d.FromWarehouseID,
		ToWarehouseID:      d.ToWarehouseID,
		Status:             string(d.Status),
		Notes:              d.Notes,
		CancellationReason: d.CancellationReason,
		CreatedBy:          d.CreatedBy,
		ApprovedAt:         d.ApprovedAt,
		ShippedAt:          d.ShippedAt,
		ReceivedAt:         d.ReceivedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		Lines:              lines,
	}
}

func toPurchaseResponse(d *entity.Purchase) dto.PurchaseResponse {
	lines := make([]dto.PurchaseLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.PurchaseLineResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			UnitCost:         l.UnitCost,
			ReceivedQuantity: l.ReceivedQuantity,
			AcceptedQuantity: l.AcceptedQuantity,
			RejectedQuantity: l.RejectedQuantity,
			IsFullyReceived:  l.IsFullyReceived,
		})
	}
	return dto.PurchaseResponse{
		ID:              d.ID,
		ReferenceNo:     d.ReferenceNo,
		SupplierID:      d.SupplierID,
		WarehouseID:     d.WarehouseID,
		Status:          string(d.Status),
		Notes:           d.Notes,
		RejectionReason: d.RejectionReason,
		CancelReason:    d.CancelReason,
		Total:           d.Total(),
		CreatedBy:       d.CreatedBy,
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Lines:           lines,
	}
}

func toSaleResponse(d *entity.Sale) dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ID:                l.ID,
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			FulfilledQuantity: l.FulfilledQuantity,
			IsFullyFulfilled:  l.IsFullyFulfilled,
		})
	}
	return dto.SaleResponse{
		ID:              d.ID,
		ReferenceNo:     d.ReferenceNo,
		CustomerID:      d.CustomerID,
		WarehouseID:     d.WarehouseID,
		Status:          string(d.Status),
		Notes:           d.Notes,
		RejectionReason: d.RejectionReason,
		CancelReason:    d.CancelReason,
		Total:           d.Total(),
		CreatedBy:       d.CreatedBy,
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		ShippedAt:       d.ShippedAt,
		DeliveredAt:     d.DeliveredAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Lines:           lines,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

func toLevelResponse(l *entity.InventoryLevel) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:        l.ProductID,
		WarehouseID:      l.WarehouseID,
		SKU:              l.SKU,
		ProductName:      l.ProductName,
		Quantity:         l.Quantity,
		ReservedQuantity: l.ReservedQuantity,
		ReorderPoint:     l.ReorderPoint,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toReplenishmentDTO(s inventory.ReplenishmentSuggestion) dto.ReplenishmentSuggestionDTO {
	return dto.ReplenishmentSuggestionDTO{
		ProductID:          s.ProductID,
		SKU:                s.SKU,
		ProductName:        s.ProductName,
		WarehouseID:        s.WarehouseID,
		CurrentStock:       s.CurrentStock,
		ReorderPoint:       s.ReorderPoint,
		MinStock:           s.MinStock,
		IdealStock:         s.IdealStock,
		SuggestedOrderQty:  s.SuggestedOrderQty,
		UnitCost:           s.UnitCost,
		EstimatedOrderCost: s.EstimatedOrderCost,
		Priority:           s.Priority,
	}
}
