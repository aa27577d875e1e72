package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// Errores de dominio.
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrUsernameExists       = errors.New("el usuario ya existe")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrDuplicateScan        = errors.New("la parte ya fue contada")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrLocked               = errors.New("recurso bloqueado")
	ErrConfirmationRequired = errors.New("se requiere confirmación explícita")
	ErrInactiveLocation     = errors.New("la ubicación está inactiva")
)

// ValidationError rechazo local antes de cualquier escritura. No es reintentable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// LockedResourceError el recurso no admite la operación en su estado actual (ej. maestro base cargado).
type LockedResourceError struct {
	Resource string
}

func (e *LockedResourceError) Error() string {
	return fmt.Sprintf("%s está bloqueado", e.Resource)
}

func (e *LockedResourceError) Unwrap() error { return ErrLocked }

// PersistenceError fallo de la capa de almacenamiento en una operación completa.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError envuelve err; devuelve nil si err es nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// PartialResultError resultado incompleto tolerado (lotes fallidos). El caller decide si lo muestra.
type PartialResultError struct {
	Op     string
	Failed int
	Total  int
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("%s: %d de %d lotes fallaron", e.Op, e.Failed, e.Total)
}

// DuplicateScanError la parte ya tiene un conteo; Existing es el registro a editar y AverageCount
// el conteo promedio vigente de la parte.
type DuplicateScanError struct {
	Existing     *entity.Scan
	AverageCount decimal.Decimal
}

func (e *DuplicateScanError) Error() string {
	if e.Existing == nil {
		return ErrDuplicateScan.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDuplicateScan.Error(), e.Existing.PartNumber)
}

func (e *DuplicateScanError) Unwrap() error { return ErrDuplicateScan }

// IsRetryable distingue fallos transitorios de infraestructura de rechazos terminales.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pe *PersistenceError
	return errors.As(err, &pe)
}
