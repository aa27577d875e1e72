package repository

import (
	"context"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// ScanRepository define el puerto de persistencia de conteos.
// Create devuelve domain.ErrDuplicateScan si la restricción UNIQUE(part_number) rechaza la fila.
type ScanRepository interface {
	Create(ctx context.Context, scan *entity.Scan) error
	Update(ctx context.Context, scan *entity.Scan) error
	GetByID(ctx context.Context, id string) (*entity.Scan, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*entity.Scan, error)
	ListAll(ctx context.Context) ([]*entity.Scan, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}
