package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TransferLineInput línea de traslado solicitada.
type TransferLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
}

// TransferInput cabecera y líneas de un traslado.
type TransferInput struct {
	ReferenceNo     string
	FromWarehouseID string
	ToWarehouseID   string
	Notes           string
	Lines           []TransferLineInput
}

// TransferUseCase flujo de traslados: draft → approved → in_transit → completed, o cancelled.
type TransferUseCase struct {
	engine
	workflow domaininv.Workflow
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx TxRunner, settings Settings, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{
		engine:   newEngine(tx, settings, log),
		workflow: domaininv.WorkflowFor(entity.DocumentTransfer),
	}
}

func (uc *TransferUseCase) validate(in TransferInput) error {
	if len(in.Lines) == 0 {
		return domain.Invalid("el traslado debe tener al menos una línea")
	}
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return domain.Invalid("bodega origen y destino son obligatorias")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return domain.Invalid("la bodega origen y destino deben ser distintas")
	}
	for i, l := range in.Lines {
		if !l.Quantity.IsPositive() {
			return domain.Invalid("línea %d: la cantidad debe ser positiva", i+1)
		}
		if exceedsScale(l.Quantity, QuantityScale) {
			return domain.Invalid("línea %d: la cantidad admite máximo %d decimales", i+1, QuantityScale)
		}
	}
	return nil
}

func (uc *TransferUseCase) checkRefs(ctx context.Context, repos Repos, in TransferInput) error {
	if err := checkWarehouse(ctx, repos, in.FromWarehouseID); err != nil {
		return err
	}
	if err := checkWarehouse(ctx, repos, in.ToWarehouseID); err != nil {
		return err
	}
	for _, l := range in.Lines {
		if err := checkProduct(ctx, repos, l.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func transferLines(in []TransferLineInput) []entity.TransferLine {
	lines := make([]entity.TransferLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.TransferLine{
			ID:        uuid.New().String(),
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return lines
}

// precheck verifica, sin mutar, que la bodega origen cubra la suma de cantidades por producto.
func (uc *TransferUseCase) precheck(ctx context.Context, repos Repos, doc *entity.Transfer) error {
	if uc.settings.AllowNegativeStock {
		return nil
	}
	required := make(map[string]decimal.Decimal)
	for _, l := range doc.Lines {
		required[l.ProductID] = required[l.ProductID].Add(l.Quantity)
	}
	productIDs := make([]string, 0, len(required))
	for id := range required {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)
	for _, id := range productIDs {
		stock, err := repos.Stock.Get(ctx, id, doc.FromWarehouseID)
		if err != nil {
			return err
		}
		if stock.Quantity.LessThan(required[id]) {
			available := stock.Quantity
			if available.IsNegative() {
				available = decimal.Zero
			}
			return &domain.InsufficientStockError{
				ProductID:   id,
				WarehouseID: doc.FromWarehouseID,
				Requested:   required[id],
				Available:   available,
			}
		}
	}
	return nil
}

func transferCalls(doc *entity.Transfer, typ entity.MovementType, warehouseID string, sign int64, actor string) []MovementCall {
	calls := make([]MovementCall, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		calls = append(calls, MovementCall{
			ProductID:     l.ProductID,
			WarehouseID:   warehouseID,
			Quantity:      l.Quantity.Mul(decimal.NewFromInt(sign)),
			Type:          typ,
			ReferenceType: entity.DocumentTransfer,
			ReferenceID:   doc.ID,
			Notes:         doc.Notes,
			Actor:         actor,
		})
	}
	return calls
}

func (uc *TransferUseCase) lock(ctx context.Context, repos Repos, id string, action domaininv.Action) (*entity.Transfer, error) {
	doc, err := repos.Transfers.GetForUpdate(ctx, id)
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

func (uc *TransferUseCase) save(doc *entity.Transfer, from entity.DocumentStatus, calls []MovementCall) *transition {
	return &transition{
		from:  from,
		to:    doc.Status,
		calls: calls,
		persist: func(ctx context.Context, repos Repos) error {
			return repos.Transfers.Update(ctx, doc)
		},
	}
}

// Create registra el traslado en draft; si no se exige aprobación, queda approved tras la verificación de stock.
func (uc *TransferUseCase) Create(ctx context.Context, actor string, in TransferInput) (*entity.Transfer, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	doc := &entity.Transfer{
		ID:              uuid.New().String(),
		ReferenceNo:     in.ReferenceNo,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Status:          entity.StatusDraft,
		Notes:           in.Notes,
		CreatedBy:       actor,
		CreatedAt:       now,
		UpdatedAt:       now,
		Lines:           transferLines(in.Lines),
	}
	if doc.ReferenceNo == "" {
		doc.ReferenceNo = "TRF-" + doc.ID[:8]
	}
	_, err := uc.execute(ctx, entity.DocumentTransfer, doc.ID, domaininv.ActionApprove, func(ctx context.Context, repos Repos) (*transition, error) {
		if err := uc.checkRefs(ctx, repos, in); err != nil {
			return nil, err
		}
		if !uc.settings.RequireApprovalForTransfers {
			if err := uc.precheck(ctx, repos, doc); err != nil {
				return nil, err
			}
			doc.Status = entity.StatusApproved
			doc.ApprovedAt = &now
		}
		return &transition{from: "", to: doc.Status, persist: func(ctx context.Context, repos Repos) error {
			return repos.Transfers.Create(ctx, doc)
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get obtiene un traslado con sus líneas.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*entity.Transfer, error) {
	var doc *entity.Transfer
	err := uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		doc, err = repos.Transfers.GetByID(ctx, id)
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
func (uc *TransferUseCase) Update(ctx context.Context, id string, in TransferInput) (*entity.Transfer, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	var doc *entity.Transfer
	_, err := uc.execute(ctx, entity.DocumentTransfer, id, domaininv.ActionUpdate, func(ctx context.Context, repos Repos) (*transition, error) {
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
		doc.FromWarehouseID = in.FromWarehouseID
		doc.ToWarehouseID = in.ToWarehouseID
		doc.Notes = in.Notes
		doc.Lines = transferLines(in.Lines)
		doc.UpdatedAt = uc.now()
		return uc.save(doc, doc.Status, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Approve verifica stock en origen (solo lectura) y pasa a approved.
func (uc *TransferUseCase) Approve(ctx context.Context, id string) (*entity.Transfer, error) {
	var doc *entity.Transfer
	_, err := uc.execute(ctx, entity.DocumentTransfer, id, domaininv.ActionApprove, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionApprove)
		if err != nil {
			return nil, err
		}
		if err := uc.precheck(ctx, repos, doc); err != nil {
			return nil, err
		}
		from := doc.Status
		now := uc.now()
		doc.Status = entity.StatusApproved
		doc.ApprovedAt = &now
		doc.UpdatedAt = now
		return uc.save(doc, from, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Ship descuenta cada línea de la bodega origen (transfer_out) y pasa a in_transit.
func (uc *TransferUseCase) Ship(ctx context.Context, id, actor string) (*entity.Transfer, error) {
	var doc *entity.Transfer
	_, err := uc.execute(ctx, entity.DocumentTransfer, id, domaininv.ActionShip, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionShip)
		if err != nil {
			return nil, err
		}
		from := doc.Status
		now := uc.now()
		doc.Status = entity.StatusInTransit
		doc.ShippedAt = &now
		doc.UpdatedAt = now
		return uc.save(doc, from, transferCalls(doc, entity.MovementTransferOut, doc.FromWarehouseID, -1, actor)), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Receive suma cada línea en la bodega destino (transfer_in) y completa el traslado.
func (uc *TransferUseCase) Receive(ctx context.Context, id, actor string) (*entity.Transfer, error) {
	var doc *entity.Transfer
	_, err := uc.execute(ctx, entity.DocumentTransfer, id, domaininv.ActionReceive, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionReceive)
		if err != nil {
			return nil, err
		}
		from := doc.Status
		now := uc.now()
		doc.Status = entity.StatusCompleted
		doc.ReceivedAt = &now
		doc.UpdatedAt = now
		return uc.save(doc, from, transferCalls(doc, entity.MovementTransferIn, doc.ToWarehouseID, 1, actor)), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Cancel anula el traslado. Si estaba in_transit, devuelve el stock a la bodega origen (transfer_cancel).
func (uc *TransferUseCase) Cancel(ctx context.Context, id, actor, reason string) (*entity.Transfer, error) {
	var doc *entity.Transfer
	_, err := uc.execute(ctx, entity.DocumentTransfer, id, domaininv.ActionCancel, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionCancel)
		if err != nil {
			return nil, err
		}
		from := doc.Status
		var calls []MovementCall
		if from == entity.StatusInTransit {
			calls = transferCalls(doc, entity.MovementTransferCancel, doc.FromWarehouseID, 1, actor)
		}
		doc.Status = entity.StatusCancelled
		doc.CancellationReason = reason
		doc.UpdatedAt = uc.now()
		return uc.save(doc, from, calls), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Destroy elimina el traslado; solo en draft.
func (uc *TransferUseCase) Destroy(ctx context.Context, id string) error {
	_, err := uc.execute(ctx, entity.DocumentTransfer, id, domaininv.ActionDelete, func(ctx context.Context, repos Repos) (*transition, error) {
		doc, err := uc.lock(ctx, repos, id, domaininv.ActionDelete)
		if err != nil {
			return nil, err
		}
		return &transition{from: doc.Status, persist: func(ctx context.Context, repos Repos) error {
			return repos.Transfers.Delete(ctx, id)
		}}, nil
	})
	return err
}
