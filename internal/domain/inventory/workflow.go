package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Action acción solicitada sobre un documento.
type Action string

const (
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionShip    Action = "ship"
	ActionReceive Action = "receive"
	ActionFulfill Action = "fulfill"
	ActionDeliver Action = "deliver"
	ActionCancel  Action = "cancel"
)

// Workflow tabla de transiciones de un tipo de documento: para cada acción, los estados
// desde los que se permite. Update y Delete solo se permiten en el estado inicial.
type Workflow struct {
	Kind    entity.DocumentKind
	Initial entity.DocumentStatus
	allowed map[Action][]entity.DocumentStatus
}

var workflows = map[entity.DocumentKind]Workflow{
	entity.DocumentAdjustment: {
		Kind:    entity.DocumentAdjustment,
		Initial: entity.StatusPending,
		allowed: map[Action][]entity.DocumentStatus{
			ActionApprove: {entity.StatusPending},
			ActionReject:  {entity.StatusPending},
		},
	},
	entity.DocumentTransfer: {
		Kind:    entity.DocumentTransfer,
		Initial: entity.StatusDraft,
		allowed: map[Action][]entity.DocumentStatus{
			ActionApprove: {entity.StatusDraft},
			ActionShip:    {entity.StatusApproved},
			ActionReceive: {entity.StatusInTransit},
			ActionCancel:  {entity.StatusDraft, entity.StatusApproved, entity.StatusInTransit},
		},
	},
	entity.DocumentPurchase: {
		Kind:    entity.DocumentPurchase,
		Initial: entity.StatusDraft,
		allowed: map[Action][]entity.DocumentStatus{
			ActionSubmit:  {entity.StatusDraft},
			ActionApprove: {entity.StatusDraft, entity.StatusPendingApproval},
			ActionReject:  {entity.StatusDraft, entity.StatusPendingApproval},
			ActionCancel:  {entity.StatusDraft, entity.StatusPendingApproval, entity.StatusApproved},
			ActionReceive: {entity.StatusApproved, entity.StatusPartiallyReceived},
		},
	},
	entity.DocumentSale: {
		Kind:    entity.DocumentSale,
		Initial: entity.StatusDraft,
		allowed: map[Action][]entity.DocumentStatus{
			ActionSubmit:  {entity.StatusDraft},
			ActionApprove: {entity.StatusDraft, entity.StatusPending},
			ActionReject:  {entity.StatusDraft, entity.StatusPending},
			ActionCancel:  {entity.StatusDraft, entity.StatusPending, entity.StatusApproved},
			ActionFulfill: {entity.StatusApproved, entity.StatusPartiallyFulfill},
			ActionShip:    {entity.StatusFulfilled},
			ActionDeliver: {entity.StatusShipped},
		},
	},
}

// WorkflowFor devuelve el flujo del tipo de documento. Un tipo desconocido produce un flujo vacío
// que rechaza toda acción.
func WorkflowFor(kind entity.DocumentKind) Workflow {
	if w, ok := workflows[kind]; ok {
		return w
	}
	return Workflow{Kind: kind}
}

// Allows indica si la acción es válida desde el estado dado.
func (w Workflow) Allows(from entity.DocumentStatus, action Action) bool {
	if action == ActionUpdate || action == ActionDelete {
		return w.Initial != "" && from == w.Initial
	}
	for _, s := range w.allowed[action] {
		if s == from {
			return true
		}
	}
	return false
}

// Check devuelve *domain.InvalidTransitionError si la acción no es válida desde from.
func (w Workflow) Check(id string, from entity.DocumentStatus, action Action) error {
	if w.Allows(from, action) {
		return nil
	}
	return &domain.InvalidTransitionError{
		Document: string(w.Kind),
		ID:       id,
		From:     string(from),
		Action:   string(action),
	}
}

// IsTerminal un estado es terminal cuando ninguna acción lo acepta.
func (w Workflow) IsTerminal(status entity.DocumentStatus) bool {
	if status == w.Initial {
		return false
	}
	for _, from := range w.allowed {
		for _, s := range from {
			if s == status {
				return false
			}
		}
	}
	return true
}
