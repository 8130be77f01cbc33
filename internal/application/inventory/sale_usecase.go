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

// SaleLineInput línea de venta solicitada.
type SaleLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SaleInput cabecera y líneas de una venta.
type SaleInput struct {
	ReferenceNo string
	CustomerID  string
	WarehouseID string
	Notes       string
	Lines       []SaleLineInput
}

// FulfillLineInput cantidad a despachar de una línea.
type FulfillLineInput struct {
	LineID   string
	Quantity decimal.Decimal
}

// SaleUseCase flujo de ventas con despacho parcial.
type SaleUseCase struct {
	engine
	workflow domaininv.Workflow
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx TxRunner, settings Settings, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{
		engine:   newEngine(tx, settings, log),
		workflow: domaininv.WorkflowFor(entity.DocumentSale),
	}
}

func (uc *SaleUseCase) validate(in SaleInput) error {
	if len(in.Lines) == 0 {
		return domain.Invalid("la venta debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return domain.Invalid("línea %d: la cantidad debe ser positiva", i+1)
		}
		if exceedsScale(l.Quantity, QuantityScale) {
			return domain.Invalid("línea %d: la cantidad admite máximo %d decimales", i+1, QuantityScale)
		}
		if l.UnitPrice.IsNegative() {
			return domain.Invalid("línea %d: precio unitario negativo", i+1)
		}
		if exceedsScale(l.UnitPrice, QuantityScale) {
			return domain.Invalid("línea %d: el precio unitario admite máximo %d decimales", i+1, QuantityScale)
		}
	}
	return nil
}

func (uc *SaleUseCase) checkRefs(ctx context.Context, repos Repos, in SaleInput) error {
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

func saleLines(in []SaleLineInput) []entity.SaleLine {
	lines := make([]entity.SaleLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.SaleLine{
			ID:                uuid.New().String(),
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			FulfilledQuantity: decimal.Zero,
		})
	}
	return lines
}

func (uc *SaleUseCase) lock(ctx context.Context, repos Repos, id string, action domaininv.Action) (*entity.Sale, error) {
	doc, err := repos.Sales.GetForUpdate(ctx, id)
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

func (uc *SaleUseCase) save(doc *entity.Sale, from entity.DocumentStatus, calls []MovementCall) *transition {
	return &transition{
		from:  from,
		to:    doc.Status,
		calls: calls,
		persist: func(ctx context.Context, repos Repos) error {
			return repos.Sales.Update(ctx, doc)
		},
	}
}

// Create registra la venta en draft.
func (uc *SaleUseCase) Create(ctx context.Context, actor string, in SaleInput) (*entity.Sale, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	doc := &entity.Sale{
		ID:          uuid.New().String(),
		ReferenceNo: in.ReferenceNo,
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Status:      entity.StatusDraft,
		Notes:       in.Notes,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
		Lines:       saleLines(in.Lines),
	}
	if doc.ReferenceNo == "" {
		doc.ReferenceNo = "SO-" + doc.ID[:8]
	}
	err := uc.tx.Run(ctx, func(repos Repos) error {
		if err := uc.checkRefs(ctx, repos, in); err != nil {
			return err
		}
		return repos.Sales.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get obtiene una venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*entity.Sale, error) {
	var doc *entity.Sale
	err := uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		doc, err = repos.Sales.GetByID(ctx, id)
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
func (uc *SaleUseCase) Update(ctx context.Context, id string, in SaleInput) (*entity.Sale, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	var doc *entity.Sale
	_, err := uc.execute(ctx, entity.DocumentSale, id, domaininv.ActionUpdate, func(ctx context.Context, repos Repos) (*transition, error) {
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
		doc.CustomerID = in.CustomerID
		doc.WarehouseID = in.WarehouseID
		doc.Notes = in.Notes
		doc.Lines = saleLines(in.Lines)
		doc.UpdatedAt = uc.now()
		return uc.save(doc, doc.Status, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *SaleUseCase) status(ctx context.Context, id string, action domaininv.Action, mutate func(doc *entity.Sale)) (*entity.Sale, error) {
	var doc *entity.Sale
	_, err := uc.execute(ctx, entity.DocumentSale, id, action, func(ctx context.Context, repos Repos) (*transition, error) {
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

// Submit envía la venta a aprobación.
func (uc *SaleUseCase) Submit(ctx context.Context, id string) (*entity.Sale, error) {
	return uc.status(ctx, id, domaininv.ActionSubmit, func(doc *entity.Sale) {
		doc.Status = entity.StatusPending
	})
}

// Approve aprueba la venta; el stock se descuenta recién al despachar.
func (uc *SaleUseCase) Approve(ctx context.Context, id, actor string) (*entity.Sale, error) {
	return uc.status(ctx, id, domaininv.ActionApprove, func(doc *entity.Sale) {
		now := uc.now()
		doc.Status = entity.StatusApproved
		doc.ApprovedBy = actor
		doc.ApprovedAt = &now
	})
}

// Reject rechaza la venta.
func (uc *SaleUseCase) Reject(ctx context.Context, id, reason string) (*entity.Sale, error) {
	return uc.status(ctx, id, domaininv.ActionReject, func(doc *entity.Sale) {
		doc.Status = entity.StatusRejected
		doc.RejectionReason = reason
	})
}

// Cancel anula la venta antes de cualquier despacho.
func (uc *SaleUseCase) Cancel(ctx context.Context, id, reason string) (*entity.Sale, error) {
	return uc.status(ctx, id, domaininv.ActionCancel, func(doc *entity.Sale) {
		doc.Status = entity.StatusCancelled
		doc.CancelReason = reason
	})
}

// Ship marca la venta como enviada.
func (uc *SaleUseCase) Ship(ctx context.Context, id string) (*entity.Sale, error) {
	return uc.status(ctx, id, domaininv.ActionShip, func(doc *entity.Sale) {
		now := uc.now()
		doc.Status = entity.StatusShipped
		doc.ShippedAt = &now
	})
}

// Deliver marca la venta como entregada.
func (uc *SaleUseCase) Deliver(ctx context.Context, id string) (*entity.Sale, error) {
	return uc.status(ctx, id, domaininv.ActionDeliver, func(doc *entity.Sale) {
		now := uc.now()
		doc.Status = entity.StatusDelivered
		doc.DeliveredAt = &now
	})
}

// Fulfill despacha las cantidades indicadas; sin líneas, despacha todo lo pendiente.
func (uc *SaleUseCase) Fulfill(ctx context.Context, id, actor string, lines []FulfillLineInput) (*entity.Sale, error) {
	return uc.fulfill(ctx, id, actor, lines)
}

// FulfillPartial despacha solo las líneas indicadas (al menos una).
func (uc *SaleUseCase) FulfillPartial(ctx context.Context, id, actor string, lines []FulfillLineInput) (*entity.Sale, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("debe indicar al menos una línea a despachar")
	}
	return uc.fulfill(ctx, id, actor, lines)
}

func (uc *SaleUseCase) fulfill(ctx context.Context, id, actor string, in []FulfillLineInput) (*entity.Sale, error) {
	for i, l := range in {
		if l.Quantity.IsNegative() {
			return nil, domain.Invalid("línea %d: cantidad negativa", i+1)
		}
		if exceedsScale(l.Quantity, QuantityScale) {
			return nil, domain.Invalid("línea %d: la cantidad admite máximo %d decimales", i+1, QuantityScale)
		}
	}
	var doc *entity.Sale
	_, err := uc.execute(ctx, entity.DocumentSale, id, domaininv.ActionFulfill, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionFulfill)
		if err != nil {
			return nil, err
		}
		requests := in
		if len(requests) == 0 {
			for _, l := range doc.Lines {
				requests = append(requests, FulfillLineInput{LineID: l.ID, Quantity: l.Remaining()})
			}
		}

		from := doc.Status
		var calls []MovementCall
		for _, req := range requests {
			line := findSaleLine(doc, req.LineID)
			if line == nil {
				return nil, domain.Invalid("línea %s no pertenece a la venta", req.LineID)
			}
			actual := decimal.Min(req.Quantity, line.Remaining())
			if !actual.IsPositive() {
				continue
			}
			line.FulfilledQuantity = line.FulfilledQuantity.Add(actual)
			line.IsFullyFulfilled = line.FulfilledQuantity.GreaterThanOrEqual(line.Quantity)
			calls = append(calls, MovementCall{
				ProductID:     line.ProductID,
				WarehouseID:   doc.WarehouseID,
				Quantity:      actual.Neg(),
				Type:          entity.MovementSaleFulfill,
				ReferenceType: entity.DocumentSale,
				ReferenceID:   doc.ID,
				Notes:         doc.ReferenceNo,
				Actor:         actor,
				Strict:        true,
			})
		}
		if len(calls) == 0 {
			return nil, domain.Invalid("no hay cantidades pendientes por despachar")
		}

		doc.Status = entity.StatusFulfilled
		for _, l := range doc.Lines {
			if !l.IsFullyFulfilled {
				doc.Status = entity.StatusPartiallyFulfill
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

func findSaleLine(doc *entity.Sale, lineID string) *entity.SaleLine {
	for i := range doc.Lines {
		if doc.Lines[i].ID == lineID {
			return &doc.Lines[i]
		}
	}
	return nil
}

// Destroy elimina la venta; solo en draft.
func (uc *SaleUseCase) Destroy(ctx context.Context, id string) error {
	_, err := uc.execute(ctx, entity.DocumentSale, id, domaininv.ActionDelete, func(ctx context.Context, repos Repos) (*transition, error) {
		doc, err := uc.lock(ctx, repos, id, domaininv.ActionDelete)
		if err != nil {
			return nil, err
		}
		return &transition{from: doc.Status, persist: func(ctx context.Context, repos Repos) error {
			return repos.Sales.Delete(ctx, id)
		}}, nil
	})
	return err
}
