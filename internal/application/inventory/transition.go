package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// transition resultado de planificar una acción sobre un documento ya bloqueado:
// las mutaciones de stock que provoca y cómo persistir el documento después de aplicarlas.
type transition struct {
	from    entity.DocumentStatus
	to      entity.DocumentStatus
	calls   []MovementCall
	persist func(ctx context.Context, repos Repos) error
}

// planFunc carga el documento con bloqueo, valida la acción contra el estado persistido
// y devuelve la transición a aplicar.
type planFunc func(ctx context.Context, repos Repos) (*transition, error)

// engine esqueleto compartido por los cuatro flujos: transición → llamadas al gateway → estado.
type engine struct {
	tx       TxRunner
	gateway  *StockGateway
	settings Settings
	log      *logger.Logger
	now      func() time.Time
}

func newEngine(tx TxRunner, settings Settings, log *logger.Logger) engine {
	if log == nil {
		log = logger.Nop()
	}
	return engine{
		tx:       tx,
		gateway:  NewStockGateway(settings),
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// execute corre plan + mutaciones + persistencia en una sola transacción. O todo o nada.
func (e engine) execute(ctx context.Context, kind entity.DocumentKind, id string, action domaininv.Action, plan planFunc) ([]*entity.InventoryMovement, error) {
	var (
		t         *transition
		movements []*entity.InventoryMovement
	)
	err := e.tx.Run(ctx, func(repos Repos) error {
		var err error
		t, err = plan(ctx, repos)
		if err != nil {
			return err
		}
		if len(t.calls) > 0 {
			movements, err = e.gateway.ApplyAll(ctx, repos, t.calls)
			if err != nil {
				return err
			}
		}
		if t.persist != nil {
			return t.persist(ctx, repos)
		}
		return nil
	})
	if err != nil {
		e.logFailure(kind, id, action, err)
		return nil, err
	}
	e.log.Info().
		Str("document", string(kind)).
		Str("id", id).
		Str("action", string(action)).
		Str("from", string(t.from)).
		Str("to", string(t.to)).
		Int("movements", len(movements)).
		Msg("transición aplicada")
	return movements, nil
}

func (e engine) logFailure(kind entity.DocumentKind, id string, action domaininv.Action, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		e.log.Warn().
			Str("document", string(kind)).
			Str("id", id).
			Str("action", string(action)).
			Str("product_id", stockErr.ProductID).
			Str("warehouse_id", stockErr.WarehouseID).
			Str("requested", stockErr.Requested.String()).
			Str("available", stockErr.Available.String()).
			Msg("stock insuficiente, transición abortada")
		return
	}
	ev := e.log.Debug()
	if errors.Is(err, domain.ErrPersistence) {
		ev = e.log.Error()
	}
	ev.Err(err).
		Str("document", string(kind)).
		Str("id", id).
		Str("action", string(action)).
		Msg("transición rechazada")
}

// checkWarehouse valida que la bodega exista y esté activa.
func checkWarehouse(ctx context.Context, repos Repos, id string) error {
	if id == "" {
		return domain.Invalid("warehouse_id es obligatorio")
	}
	wh, err := repos.Warehouses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	if !wh.Active {
		return domain.Invalid("la bodega %s está inactiva", id)
	}
	return nil
}

// checkProduct valida que el producto exista.
func checkProduct(ctx context.Context, repos Repos, id string) error {
	if id == "" {
		return domain.Invalid("product_id es obligatorio")
	}
	p, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}
