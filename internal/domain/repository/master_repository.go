package repository

import (
	"context"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// BasePartRepository define el puerto de persistencia del maestro base (DIP).
type BasePartRepository interface {
	Count(ctx context.Context) (int, error)
	// InsertAllIfEmpty inserta el conjunto completo solo si la tabla está vacía; si no,
	// devuelve *domain.LockedResourceError sin escribir nada.
	InsertAllIfEmpty(ctx context.Context, parts []*entity.BasePart) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*entity.BasePart, error)
	// ListByPartNumbers resuelve un único lote (IN); el troceo lo hace el caller.
	ListByPartNumbers(ctx context.Context, partNumbers []string) ([]*entity.BasePart, error)
	ListAll(ctx context.Context) ([]*entity.BasePart, error)
}

// DailyPartRepository define el puerto del maestro diario (reemplazo total por carga).
type DailyPartRepository interface {
	ReplaceAll(ctx context.Context, parts []*entity.DailyPart) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	// GetLatestByPartNumber devuelve la fila con upload_date más reciente.
	GetLatestByPartNumber(ctx context.Context, partNumber string) (*entity.DailyPart, error)
	ListByPartNumbers(ctx context.Context, partNumbers []string) ([]*entity.DailyPart, error)
	ListAll(ctx context.Context) ([]*entity.DailyPart, error)
}

// AverageCountRepository define el puerto de la referencia de conteo promedio.
type AverageCountRepository interface {
	UpsertBatch(ctx context.Context, items []*entity.AverageCount) error
	GetByPartNumber(ctx context.Context, partNumber string) (*entity.AverageCount, error)
	ListByPartNumbers(ctx context.Context, partNumbers []string) ([]*entity.AverageCount, error)
}
