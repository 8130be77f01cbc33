// Package memory implementa los puertos de persistencia en memoria del proceso.
// Las transacciones se serializan: cada Run trabaja sobre una copia del estado y
// la publica solo si fn termina sin error.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products    map[string]entity.Product
	skus        map[string]string
	warehouses  map[string]entity.Warehouse
	codes       map[string]string
	stock       map[entity.StockKey]entity.Stock
	movements   []entity.InventoryMovement
	adjustments map[string]entity.Adjustment
	transfers   map[string]entity.Transfer
	purchases   map[string]entity.Purchase
	sales       map[string]entity.Sale
}

func newState() *state {
	return &state{
		products:    make(map[string]entity.Product),
		skus:        make(map[string]string),
		warehouses:  make(map[string]entity.Warehouse),
		codes:       make(map[string]string),
		stock:       make(map[entity.StockKey]entity.Stock),
		adjustments: make(map[string]entity.Adjustment),
		transfers:   make(map[string]entity.Transfer),
		purchases:   make(map[string]entity.Purchase),
		sales:       make(map[string]entity.Sale),
	}
}

// clone copia superficial de los mapas. Los valores guardados nunca se mutan en sitio
// (toda escritura reemplaza la entrada), así que compartirlos es seguro.
func (s *state) clone() *state {
	return &state{
		products:    maps.Clone(s.products),
		skus:        maps.Clone(s.skus),
		warehouses:  maps.Clone(s.warehouses),
		codes:       maps.Clone(s.codes),
		stock:       maps.Clone(s.stock),
		movements:   s.movements[:len(s.movements):len(s.movements)],
		adjustments: maps.Clone(s.adjustments),
		transfers:   maps.Clone(s.transfers),
		purchases:   maps.Clone(s.purchases),
		sales:       maps.Clone(s.sales),
	}
}

// Store almacenamiento en memoria. Implementa inventory.TxRunner y los repositorios de lectura.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla, la copia reemplaza al estado actual.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	s.state = work
	return nil
}

func reposFor(st *state) inventory.Repos {
	return inventory.Repos{
		Movements:   &movementRepo{st: st},
		Stock:       &stockRepo{st: st},
		Products:    &productRepo{st: st},
		Warehouses:  &warehouseRepo{st: st},
		Adjustments: &adjustmentRepo{st: st},
		Transfers:   &transferRepo{st: st},
		Purchases:   &purchaseRepo{st: st},
		Sales:       &saleRepo{st: st},
	}
}

// Products repositorio de productos fuera de transacción (catálogo).
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }

// Warehouses repositorio de bodegas fuera de transacción (catálogo).
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{store: s} }

// Levels repositorio de lectura de saldos.
func (s *Store) Levels() *LevelRepo { return &LevelRepo{store: s} }

// read ejecuta fn con el estado publicado bajo bloqueo de lectura.
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}
