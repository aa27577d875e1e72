package entity

import "github.com/google/uuid"

// ValidID indica si id tiene formato UUID (las columnas id de la base son uuid).
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
