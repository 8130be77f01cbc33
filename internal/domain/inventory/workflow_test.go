package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestWorkflow_Allows(t *testing.T) {
	cases := []struct {
		kind   entity.DocumentKind
		from   entity.DocumentStatus
		action inventory.Action
		want   bool
	}{
		{entity.DocumentAdjustment, entity.StatusPending, inventory.ActionApprove, true},
		{entity.DocumentAdjustment, entity.StatusApproved, inventory.ActionApprove, false},
		{entity.DocumentAdjustment, entity.StatusPending, inventory.ActionUpdate, true},
		{entity.DocumentAdjustment, entity.StatusRejected, inventory.ActionDelete, false},

		{entity.DocumentTransfer, entity.StatusDraft, inventory.ActionShip, false},
		{entity.DocumentTransfer, entity.StatusApproved, inventory.ActionShip, true},
		{entity.DocumentTransfer, entity.StatusInTransit, inventory.ActionReceive, true},
		{entity.DocumentTransfer, entity.StatusInTransit, inventory.ActionCancel, true},
		{entity.DocumentTransfer, entity.StatusCompleted, inventory.ActionCancel, false},
		{entity.DocumentTransfer, entity.StatusApproved, inventory.ActionUpdate, false},

		{entity.DocumentPurchase, entity.StatusDraft, inventory.ActionApprove, true},
		{entity.DocumentPurchase, entity.StatusPendingApproval, inventory.ActionApprove, true},
		{entity.DocumentPurchase, entity.StatusDraft, inventory.ActionReceive, false},
		{entity.DocumentPurchase, entity.StatusPartiallyReceived, inventory.ActionReceive, true},
		{entity.DocumentPurchase, entity.StatusPartiallyReceived, inventory.ActionCancel, false},
		{entity.DocumentPurchase, entity.StatusReceived, inventory.ActionReceive, false},

		{entity.DocumentSale, entity.StatusPending, inventory.ActionFulfill, false},
		{entity.DocumentSale, entity.StatusApproved, inventory.ActionFulfill, true},
		{entity.DocumentSale, entity.StatusPartiallyFulfill, inventory.ActionFulfill, true},
		{entity.DocumentSale, entity.StatusFulfilled, inventory.ActionShip, true},
		{entity.DocumentSale, entity.StatusShipped, inventory.ActionDeliver, true},
		{entity.DocumentSale, entity.StatusPartiallyFulfill, inventory.ActionCancel, false},
	}
	for _, tc := range cases {
		w := inventory.WorkflowFor(tc.kind)
		assert.Equalf(t, tc.want, w.Allows(tc.from, tc.action), "%s: %s desde %s", tc.kind, tc.action, tc.from)
	}
}

func TestWorkflow_CheckDevuelveErrorTipado(t *testing.T) {
	w := inventory.WorkflowFor(entity.DocumentTransfer)
	err := w.Check("t-1", entity.StatusCompleted, inventory.ActionShip)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	var te *domain.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "transfer", te.Document)
	assert.Equal(t, "t-1", te.ID)
	assert.Equal(t, "completed", te.From)
	assert.Equal(t, "ship", te.Action)
}

func TestWorkflow_IsTerminal(t *testing.T) {
	terminal := map[entity.DocumentKind][]entity.DocumentStatus{
		entity.DocumentAdjustment: {entity.StatusApproved, entity.StatusRejected},
		entity.DocumentTransfer:   {entity.StatusCompleted, entity.StatusCancelled},
		entity.DocumentPurchase:   {entity.StatusReceived, entity.StatusRejected, entity.StatusCancelled},
		entity.DocumentSale:       {entity.StatusDelivered, entity.StatusRejected, entity.StatusCancelled},
	}
	for kind, states := range terminal {
		w := inventory.WorkflowFor(kind)
		for _, s := range states {
			assert.Truef(t, w.IsTerminal(s), "%s/%s debería ser terminal", kind, s)
		}
		assert.False(t, w.IsTerminal(w.Initial))
	}
	assert.False(t, inventory.WorkflowFor(entity.DocumentSale).IsTerminal(entity.StatusShipped))
}

func TestWorkflowFor_TipoDesconocidoRechazaTodo(t *testing.T) {
	w := inventory.WorkflowFor("invoice")
	assert.False(t, w.Allows("draft", inventory.ActionApprove))
	assert.False(t, w.Allows("", inventory.ActionUpdate))
}
