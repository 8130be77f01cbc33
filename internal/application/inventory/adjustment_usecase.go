package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// AdjustmentLineInput línea de ajuste solicitada.
type AdjustmentLineInput struct {
	ProductID string
	Type      entity.AdjustmentType
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
}

// AdjustmentInput cabecera y líneas de un ajuste.
type AdjustmentInput struct {
	ReferenceNo string
	WarehouseID string
	Reason      string
	Notes       string
	Lines       []AdjustmentLineInput
}

// AdjustmentUseCase flujo de ajustes: pending → approved | rejected.
type AdjustmentUseCase struct {
	engine
	workflow domaininv.Workflow
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(tx TxRunner, settings Settings, log *logger.Logger) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		engine:   newEngine(tx, settings, log),
		workflow: domaininv.WorkflowFor(entity.DocumentAdjustment),
	}
}

func (uc *AdjustmentUseCase) validate(in AdjustmentInput) error {
	if len(in.Lines) == 0 {
		return domain.Invalid("el ajuste debe tener al menos una línea")
	}
	if uc.settings.RequireReasonForAdjustments && strings.TrimSpace(in.Reason) == "" {
		return domain.Invalid("el motivo del ajuste es obligatorio")
	}
	for i, l := range in.Lines {
		if l.Type != entity.AdjustmentIncrease && l.Type != entity.AdjustmentDecrease {
			return domain.Invalid("línea %d: tipo %q inválido", i+1, l.Type)
		}
		if !l.Quantity.IsPositive() {
			return domain.Invalid("línea %d: la cantidad debe ser positiva", i+1)
		}
		if exceedsScale(l.Quantity, QuantityScale) {
			return domain.Invalid("línea %d: la cantidad admite máximo %d decimales", i+1, QuantityScale)
		}
		if l.UnitCost != nil && l.UnitCost.IsNegative() {
			return domain.Invalid("línea %d: costo unitario negativo", i+1)
		}
		if l.UnitCost != nil && exceedsScale(*l.UnitCost, CostScale) {
			return domain.Invalid("línea %d: el costo unitario admite máximo %d decimales", i+1, CostScale)
		}
	}
	return nil
}

func (uc *AdjustmentUseCase) checkRefs(ctx context.Context, repos Repos, in AdjustmentInput) error {
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

func adjustmentLines(in []AdjustmentLineInput) []entity.AdjustmentLine {
	lines := make([]entity.AdjustmentLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.AdjustmentLine{
			ID:        uuid.New().String(),
			ProductID: l.ProductID,
			Type:      l.Type,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return lines
}

// adjustmentCalls una llamada al gateway por línea: aumento positivo, disminución negativa.
func adjustmentCalls(doc *entity.Adjustment, actor string) []MovementCall {
	calls := make([]MovementCall, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		call := MovementCall{
			ProductID:     l.ProductID,
			WarehouseID:   doc.WarehouseID,
			ReferenceType: entity.DocumentAdjustment,
			ReferenceID:   doc.ID,
			Notes:         doc.Reason,
			Actor:         actor,
		}
		if l.Type == entity.AdjustmentIncrease {
			call.Type = entity.MovementAdjustmentIn
			call.Quantity = l.Quantity
			call.UnitCost = l.UnitCost
		} else {
			call.Type = entity.MovementAdjustmentOut
			call.Quantity = l.Quantity.Neg()
		}
		calls = append(calls, call)
	}
	return calls
}

// Create registra el ajuste en pending. Si la configuración no exige aprobación,
// lo aprueba en la misma transacción.
func (uc *AdjustmentUseCase) Create(ctx context.Context, actor string, in AdjustmentInput) (*entity.Adjustment, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	doc := &entity.Adjustment{
		ID:          uuid.New().String(),
		ReferenceNo: in.ReferenceNo,
		WarehouseID: in.WarehouseID,
		Reason:      in.Reason,
		Notes:       in.Notes,
		Status:      entity.StatusPending,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
		Lines:       adjustmentLines(in.Lines),
	}
	if doc.ReferenceNo == "" {
		doc.ReferenceNo = "ADJ-" + doc.ID[:8]
	}

	autoApprove := !uc.settings.RequireApprovalForAdjustments
	_, err := uc.execute(ctx, entity.DocumentAdjustment, doc.ID, domaininv.ActionApprove, func(ctx context.Context, repos Repos) (*transition, error) {
		if err := uc.checkRefs(ctx, repos, in); err != nil {
			return nil, err
		}
		if !autoApprove {
			return &transition{
				from: "",
				to:   entity.StatusPending,
				persist: func(ctx context.Context, repos Repos) error {
					return repos.Adjustments.Create(ctx, doc)
				},
			}, nil
		}
		if err := repos.Adjustments.Create(ctx, doc); err != nil {
			return nil, err
		}
		return uc.approval(doc, actor), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *AdjustmentUseCase) approval(doc *entity.Adjustment, actor string) *transition {
	from := doc.Status
	return &transition{
		from:  from,
		to:    entity.StatusApproved,
		calls: adjustmentCalls(doc, actor),
		persist: func(ctx context.Context, repos Repos) error {
			now := uc.now()
			doc.Status = entity.StatusApproved
			doc.ApprovedBy = actor
			doc.ApprovedAt = &now
			doc.UpdatedAt = now
			return repos.Adjustments.Update(ctx, doc)
		},
	}
}

// lock carga el ajuste con bloqueo y valida la acción contra su estado persistido.
func (uc *AdjustmentUseCase) lock(ctx context.Context, repos Repos, id string, action domaininv.Action) (*entity.Adjustment, error) {
	doc, err := repos.Adjustments.GetForUpdate(ctx, id)
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

// Get obtiene un ajuste con sus líneas.
func (uc *AdjustmentUseCase) Get(ctx context.Context, id string) (*entity.Adjustment, error) {
	var doc *entity.Adjustment
	err := uc.tx.Run(ctx, func(repos Repos) error {
		var err error
		doc, err = repos.Adjustments.GetByID(ctx, id)
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

// Update reemplaza cabecera y líneas; solo en pending.
func (uc *AdjustmentUseCase) Update(ctx context.Context, id string, in AdjustmentInput) (*entity.Adjustment, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	var doc *entity.Adjustment
	_, err := uc.execute(ctx, entity.DocumentAdjustment, id, domaininv.ActionUpdate, func(ctx context.Context, repos Repos) (*transition, error) {
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
		doc.WarehouseID = in.WarehouseID
		doc.Reason = in.Reason
		doc.Notes = in.Notes
		doc.Lines = adjustmentLines(in.Lines)
		doc.UpdatedAt = uc.now()
		return &transition{from: doc.Status, to: doc.Status, persist: func(ctx context.Context, repos Repos) error {
			return repos.Adjustments.Update(ctx, doc)
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Approve aplica cada línea al stock (aumento o disminución) y pasa a approved.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, id, actor string) (*entity.Adjustment, error) {
	var doc *entity.Adjustment
	_, err := uc.execute(ctx, entity.DocumentAdjustment, id, domaininv.ActionApprove, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionApprove)
		if err != nil {
			return nil, err
		}
		return uc.approval(doc, actor), nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Reject descarta el ajuste sin efecto en stock.
func (uc *AdjustmentUseCase) Reject(ctx context.Context, id, actor, reason string) (*entity.Adjustment, error) {
	var doc *entity.Adjustment
	_, err := uc.execute(ctx, entity.DocumentAdjustment, id, domaininv.ActionReject, func(ctx context.Context, repos Repos) (*transition, error) {
		var err error
		doc, err = uc.lock(ctx, repos, id, domaininv.ActionReject)
		if err != nil {
			return nil, err
		}
		from := doc.Status
		doc.Status = entity.StatusRejected
		if reason != "" {
			doc.Notes = strings.TrimSpace(doc.Notes + "\n" + reason)
		}
		doc.UpdatedAt = uc.now()
		return &transition{from: from, to: doc.Status, persist: func(ctx context.Context, repos Repos) error {
			return repos.Adjustments.Update(ctx, doc)
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Destroy elimina el ajuste; solo en pending.
func (uc *AdjustmentUseCase) Destroy(ctx context.Context, id string) error {
	_, err := uc.execute(ctx, entity.DocumentAdjustment, id, domaininv.ActionDelete, func(ctx context.Context, repos Repos) (*transition, error) {
		doc, err := uc.lock(ctx, repos, id, domaininv.ActionDelete)
		if err != nil {
			return nil, err
		}
		return &transition{from: doc.Status, to: "", persist: func(ctx context.Context, repos Repos) error {
			return repos.Adjustments.Delete(ctx, id)
		}}, nil
	})
	return err
}
