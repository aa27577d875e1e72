package entity

import "time"

// Location área física de conteo asignada a cada scan. Se activa/desactiva, no se borra.
type Location struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
