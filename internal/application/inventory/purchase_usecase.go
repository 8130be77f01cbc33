package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// PurchaseLineInput línea de compra solicitada.
type PurchaseLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// PurchaseInput cabecera y líneas de una compra.
type PurchaseInput struct {
	ReferenceNo string
	SupplierID  string
	WarehouseID string
	Notes       string
	Lines       []PurchaseLineInput
}

// ReceiveLineInput cantidades recibidas de una línea: Quantity aceptada (entra a stock)
// y RejectedQuantity rechazada (solo contabiliza en la línea).
type ReceiveLineInput struct {
	LineID           string
	Quantity         decimal.Decimal
	RejectedQuantity decimal.Decimal
}

// PurchaseUseCase flujo de compras con recepción parcial.
type PurchaseUseCase struct {
	engine
	workflow domaininv.Workflow
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(tx TxRunner, settings Settings, log *logger.Logger) *PurchaseUseCase {
	return &PurchaseUseCase{
		engine:   newEngine(tx, settings, log),
		workflow: domaininv.WorkflowFor(entity.DocumentPurchase),
	}
}

func (uc *PurchaseUseCase) validate(in PurchaseInput) error {
	if len(in.Lines) == 0 {
		return domain.Invalid("la compra debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return domain.Invalid("línea %d: la cantidad debe ser positiva", i+1)
		}
		if exceedsScale(l.Quantity, QuantityScale) {
			return domain.Invalid("línea %d: la cantidad admite máximo %d decimales", i+1, QuantityScale)
		}
		if l.UnitCost.IsNegative() {
			return domain.Invalid("línea %d: costo unitario negativo", i+1)
		}
		if exceedsScale(l.UnitCost, CostScale) {
			return domain.Invalid("línea %d: el costo unitario admite máximo %d decimales", i+1, CostScale)
		}
	}
	return nil
}

func (uc *PurchaseUseCase) checkRefs(ctx context.Context, repos Repos, in PurchaseInput) error {
	if err := checkWarehouse(ctx, repos, in.WarehouseID); err != nil {
		return err
	}
	for _, l := range in.Lines {
		if err := checkProduct(ctx, repos, l.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func purchaseLines(in []PurchaseLineInput) []entity.PurchaseLine {
	lines := make([]entity.PurchaseLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.PurchaseLine{
			ID:               uuid.New().String(),
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			UnitCost:         l.UnitCost,
			ReceivedQuantity: decimal.Zero,
			AcceptedQuantity: decimal.Zero,
			RejectedQuantity: decimal.Zero,
		})
	}
	return lines
}

func (uc *PurchaseUseCase) lock(ctx context.Context, repos Repos, id string, action domaininv.Action) (*entity.Purchase, error) {
	doc, err := repos.Purchases.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.workflow.Check(doc.ID, doc.Status, action); err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *PurchaseUseCase) save(doc *entity.Purchase, from entity.DocumentStatus, calls []MovementCall) *transition {
	return &transition{
		from:  from,
		to:    doc.Status,
		calls: calls,
		persist: func(ctx context.Context, repos Repos) error {
			return repos.Purchases.Update(ctx, doc)
		},
	}
}

// Create registra la compra en draft.
func (uc *PurchaseUseCase) Create(ctx context.Context, actor string, in PurchaseInput) (*entity.Purchase, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	doc := &entity.Purchase{
		ID:          uuid.New().String(),
		ReferenceNo: in.ReferenceNo,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.StatusDraft,
		Notes:       in.Notes,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
		Lines:       purchaseLines(in.Lines),
	}
	if doc.ReferenceNo == "" {
		doc.ReferenceNo = "PO-" + doc.ID[:8]
	}
	err := uc.tx.Run(ctx, func(repos Repos) error {
		if err := uc.checkRefs(ctx, repos, in); err != nil {
			return err
		}
		return repos.Purchases.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*entity.Purchase, error) {
	var doc *entity.Purchase
	err := uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		doc, err = repos.Purchases.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Update reemplaza cabecera y líneas; solo en draft.
func (uc *PurchaseUseCase) Update(ctx context.Context, id string, in PurchaseInput) (*entity.Purchase, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	var doc *entity.Purchase
	_, err := uc.execute(ctx, entity.DocumentPurchase, id, domaininv.ActionUpdate, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionUpdate)
		if err != nil {
			return nil, err
		}
		if err := uc.checkRefs(ctx, repos, in); err != nil {
			return nil, err
		}
		if in.ReferenceNo != "" {
			doc.ReferenceNo = in.ReferenceNo
		}
		doc.SupplierID = in.SupplierID
		doc.WarehouseID = in.WarehouseID
		doc.Notes = in.Notes
		doc.Lines = purchaseLines(in.Lines)
		doc.UpdatedAt = uc.now()
		return uc.save(doc, doc.Status, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// status cambia el estado sin efecto en stock.
func (uc *PurchaseUseCase) status(ctx context.Context, id string, action domaininv.Action, mutate func(doc *entity.Purchase)) (*entity.Purchase, error) {
	var doc *entity.Purchase
	_, err := uc.execute(ctx, entity.DocumentPurchase, id, action, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, action)
		if err != nil {
			return nil, err
		}
		from := doc.Status
		mutate(doc)
		doc.UpdatedAt = uc.now()
		return uc.save(doc, from, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Submit envía la compra a aprobación.
func (uc *PurchaseUseCase) Submit(ctx context.Context, id string) (*entity.Purchase, error) {
	return uc.status(ctx, id, domaininv.ActionSubmit, func(doc *entity.Purchase) {
		doc.Status = entity.StatusPendingApproval
	})
}

// Approve aprueba la compra; no mueve stock.
func (uc *PurchaseUseCase) Approve(ctx context.Context, id, actor string) (*entity.Purchase, error) {
	return uc.status(ctx, id, domaininv.ActionApprove, func(doc *entity.Purchase) {
		now := uc.now()
		doc.Status = entity.StatusApproved
		doc.ApprovedBy = actor
		doc.ApprovedAt = &now
	})
}

// Reject rechaza la compra.
func (uc *PurchaseUseCase) Reject(ctx context.Context, id, reason string) (*entity.Purchase, error) {
	return uc.status(ctx, id, domaininv.ActionReject, func(doc *entity.Purchase) {
		doc.Status = entity.StatusRejected
		doc.RejectionReason = reason
	})
}

// Cancel anula la compra antes de cualquier recepción.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, id, reason string) (*entity.Purchase, error) {
	return uc.status(ctx, id, domaininv.ActionCancel, func(doc *entity.Purchase) {
		doc.Status = entity.StatusCancelled
		doc.CancelReason = reason
	})
}

// Receive recibe las cantidades indicadas; sin líneas, recibe como aceptado todo lo pendiente.
func (uc *PurchaseUseCase) Receive(ctx context.Context, id, actor string, lines []ReceiveLineInput) (*entity.Purchase, error) {
	return uc.receive(ctx, id, actor, lines, true)
}

// ReceivePartial recibe solo las líneas indicadas (al menos una).
func (uc *PurchaseUseCase) ReceivePartial(ctx context.Context, id, actor string, lines []ReceiveLineInput) (*entity.Purchase, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("debe indicar al menos una línea a recibir")
	}
	return uc.receive(ctx, id, actor, lines, false)
}

func (uc *PurchaseUseCase) receive(ctx context.Context, id, actor string, in []ReceiveLineInput, all bool) (*entity.Purchase, error) {
	for i, l := range in {
		if l.Quantity.IsNegative() || l.RejectedQuantity.IsNegative() {
			return nil, domain.Invalid("línea %d: cantidades negativas", i+1)
		}
		if exceedsScale(l.Quantity, QuantityScale) || exceedsScale(l.RejectedQuantity, QuantityScale) {
			return nil, domain.Invalid("línea %d: las cantidades admiten máximo %d decimales", i+1, QuantityScale)
		}
	}
	var doc *entity.Purchase
	_, err := uc.execute(ctx, entity.DocumentPurchase, id, domaininv.ActionReceive, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionReceive)
		if err != nil {
			return nil, err
		}
		requests := in
		if len(requests) == 0 && all {
			for _, l := range doc.Lines {
				requests = append(requests, ReceiveLineInput{LineID: l.ID, Quantity: l.Remaining()})
			}
		}

		from := doc.Status
		var calls []MovementCall
		applied := false
		for _, req := range requests {
			line := findPurchaseLine(doc, req.LineID)
			if line == nil {
				return nil, domain.Invalid("línea %s no pertenece a la compra", req.LineID)
			}
			// Se procesa como máximo lo pendiente de la línea; lo aceptado tiene prioridad.
			actual := decimal.Min(req.Quantity.Add(req.RejectedQuantity), line.Remaining())
			if !actual.IsPositive() {
				continue
			}
			accepted := decimal.Min(req.Quantity, actual)
			rejected := actual.Sub(accepted)
			line.ReceivedQuantity = line.ReceivedQuantity.Add(actual)
			line.AcceptedQuantity = line.AcceptedQuantity.Add(accepted)
			line.RejectedQuantity = line.RejectedQuantity.Add(rejected)
			line.IsFullyReceived = line.ReceivedQuantity.GreaterThanOrEqual(line.Quantity)
			applied = true
			if accepted.IsPositive() {
				cost := line.UnitCost
				calls = append(calls, MovementCall{
					ProductID:     line.ProductID,
					WarehouseID:   doc.WarehouseID,
					Quantity:      accepted,
					UnitCost:      &cost,
					Type:          entity.MovementPurchaseRecv,
					ReferenceType: entity.DocumentPurchase,
					ReferenceID:   doc.ID,
					Notes:         doc.ReferenceNo,
					Actor:         actor,
				})
			}
		}
		if !applied {
			return nil, domain.Invalid("no hay cantidades pendientes por recibir")
		}

		doc.Status = entity.StatusReceived
		for _, l := range doc.Lines {
			if !l.IsFullyReceived {
				doc.Status = entity.StatusPartiallyReceived
				break
			}
		}
		doc.UpdatedAt = uc.now()
		return uc.save(doc, from, calls), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func findPurchaseLine(doc *entity.Purchase, lineID string) *entity.PurchaseLine {
	for i := range doc.Lines {
		if doc.Lines[i].ID == lineID {
			return &doc.Lines[i]
		}
	}
	return nil
}

// Destroy elimina la compra; solo en draft.
func (uc *PurchaseUseCase) Destroy(ctx context.Context, id string) error {
	_, err := uc.execute(ctx, entity.DocumentPurchase, id, domaininv.ActionDelete, func(ctx context.Context, repos Repos) (*transition, error) {
		doc, err := uc.lock(ctx, repos, id, domaininv.ActionDelete)
		if err != nil {
			return nil, err
		}
		return &transition{from: doc.Status, persist: func(ctx context.Context, repos Repos) error {
			return repos.Purchases.Delete(ctx, id)
		}}, nil
	})
	return err
}
