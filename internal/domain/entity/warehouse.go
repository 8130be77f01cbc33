package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// Inmutable para el motor de inventario; se administra en el catálogo.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
