package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación de conteo.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateLocationRequest entrada para renombrar una ubicación.
type UpdateLocationRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
}

// PreferencesDTO preferencias persistidas del operador.
type PreferencesDTO struct {
	LastLocationID string `json:"last_location_id"`
}
