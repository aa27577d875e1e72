package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
)

const (
	baseTable    = "base_part_master"
	dailyTable   = "daily_part_master"
	averageTable = "average_counts"
)

var (
	baseColumns  = []string{"id", "part_number", "description", "category", "default_bin", "purchase_price", "base_stock", "created_at"}
	dailyColumns = []string{"id", "part_number", "description", "category", "latest_bin", "latest_stock", "upload_date"}
)

// copyID COPY usa formato binario: el id viaja como uuid.UUID. Asigna uno nuevo si está vacío.
func copyID(id *string) (uuid.UUID, error) {
	if *id == "" {
		u := uuid.New()
		*id = u.String()
		return u, nil
	}
	return uuid.Parse(*id)
}

// ─── Base ─────────────────────────────────────────────────────────────────────

var _ repository.BasePartRepository = (*BasePartRepo)(nil)

// BasePartRepo maestro base sobre PostgreSQL.
type BasePartRepo struct {
	q        Querier
	tx       *TxRunner
	pageSize int
}

// NewBasePartRepository construye el adaptador. pageSize son las filas por página de ListAll.
func NewBasePartRepository(q Querier, pageSize int) *BasePartRepo {
	return &BasePartRepo{q: q, tx: NewTxRunner(q), pageSize: pageSize}
}

// Count cantidad de filas del maestro base.
func (r *BasePartRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM `+baseTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("count base parts: %w", err)
	}
	return n, nil
}

// InsertAllIfEmpty bloquea la tabla, verifica que esté vacía e inserta con COPY en la misma transacción.
// Dos cargas concurrentes no pueden pasar ambas la verificación.
func (r *BasePartRepo) InsertAllIfEmpty(ctx context.Context, parts []*entity.BasePart) (int, error) {
	var inserted int64
	err := r.tx.Run(ctx, func(tx Querier) error {
		lock := `LOCK TABLE ` + pgx.Identifier{baseTable}.Sanitize() + ` IN EXCLUSIVE MODE`
		if _, err := tx.Exec(ctx, lock); err != nil {
			return fmt.Errorf("lock base parts: %w", err)
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+baseTable+`)`).Scan(&exists); err != nil {
			return fmt.Errorf("check base parts: %w", err)
		}
		if exists {
			return &domain.LockedResourceError{Resource: "maestro base"}
		}
		now := time.Now()
		n, err := tx.CopyFrom(ctx, pgx.Identifier{baseTable}, baseColumns, pgx.CopyFromSlice(len(parts), func(i int) ([]any, error) {
			p := parts[i]
			id, err := copyID(&p.ID)
			if err != nil {
				return nil, err
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			return []any{id, p.PartNumber, p.Description, p.Category, p.DefaultBin, p.PurchasePrice, p.BaseStock, p.CreatedAt}, nil
		}))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("copy base parts: número de parte repetido: %w", err)
			}
			return fmt.Errorf("copy base parts: %w", err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(inserted), nil
}

// DeleteAll vacía el maestro base (lo desbloquea).
func (r *BasePartRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+baseTable)
	if err != nil {
		return 0, fmt.Errorf("delete base parts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// GetByPartNumber obtiene una parte; (nil, nil) si no existe.
func (r *BasePartRepo) GetByPartNumber(ctx context.Context, partNumber string) (*entity.BasePart, error) {
	p, err := scanBasePart(r.q.QueryRow(ctx, baseSelect+` WHERE part_number = $1`, partNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get base part: %w", err)
	}
	return p, nil
}

// ListByPartNumbers un lote de llaves; el troceo lo hace el caller.
func (r *BasePartRepo) ListByPartNumbers(ctx context.Context, partNumbers []string) ([]*entity.BasePart, error) {
	rows, err := r.q.Query(ctx, baseSelect+` WHERE part_number = ANY($1)`, partNumbers)
	if err != nil {
		return nil, fmt.Errorf("list base parts by part number: %w", err)
	}
	return collect(rows, scanBasePart)
}

// ListAll lee todo el maestro base por páginas (orden por part_number).
func (r *BasePartRepo) ListAll(ctx context.Context) ([]*entity.BasePart, error) {
	pq := PageQuery{Table: baseTable, Columns: baseColumns, OrderBy: "part_number", Ascending: true}
	list, err := readAll(ctx, r.q, r.pageSize, pq, scanBasePart)
	if err != nil {
		return nil, fmt.Errorf("list base parts: %w", err)
	}
	return list, nil
}

const baseSelect = `
	SELECT id, part_number, description, category, default_bin, purchase_price, base_stock, created_at
	FROM ` + baseTable

func scanBasePart(row pgx.Row) (*entity.BasePart, error) {
	var p entity.BasePart
	err := row.Scan(&p.ID, &p.PartNumber, &p.Description, &p.Category, &p.DefaultBin, &p.PurchasePrice, &p.BaseStock, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ─── Daily ────────────────────────────────────────────────────────────────────

var _ repository.DailyPartRepository = (*DailyPartRepo)(nil)

// DailyPartRepo maestro diario sobre PostgreSQL.
type DailyPartRepo struct {
	q        Querier
	tx       *TxRunner
	pageSize int
}

// NewDailyPartRepository construye el adaptador.
func NewDailyPartRepository(q Querier, pageSize int) *DailyPartRepo {
	return &DailyPartRepo{q: q, tx: NewTxRunner(q), pageSize: pageSize}
}

// ReplaceAll borra todo e inserta el nuevo conjunto en una sola transacción (nunca une).
func (r *DailyPartRepo) ReplaceAll(ctx context.Context, parts []*entity.DailyPart) (int, error) {
	var inserted int64
	err := r.tx.Run(ctx, func(tx Querier) error {
		if _, err := tx.Exec(ctx, `DELETE FROM `+dailyTable); err != nil {
			return fmt.Errorf("delete daily parts: %w", err)
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{dailyTable}, dailyColumns, pgx.CopyFromSlice(len(parts), func(i int) ([]any, error) {
			p := parts[i]
			id, err := copyID(&p.ID)
			if err != nil {
				return nil, err
			}
			return []any{id, p.PartNumber, p.Description, p.Category, p.LatestBin, p.LatestStock, p.UploadDate}, nil
		}))
		if err != nil {
			return fmt.Errorf("copy daily parts: %w", err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(inserted), nil
}

// DeleteAll vacía el maestro diario.
func (r *DailyPartRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM `+dailyTable)
	if err != nil {
		return 0, fmt.Errorf("delete daily parts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// GetLatestByPartNumber fila más reciente de la parte; (nil, nil) si no existe.
func (r *DailyPartRepo) GetLatestByPartNumber(ctx context.Context, partNumber string) (*entity.DailyPart, error) {
	query := dailySelect + ` WHERE part_number = $1 ORDER BY upload_date DESC, id LIMIT 1`
	p, err := scanDailyPart(r.q.QueryRow(ctx, query, partNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily part: %w", err)
	}
	return p, nil
}

// ListByPartNumbers un lote de llaves.
func (r *DailyPartRepo) ListByPartNumbers(ctx context.Context, partNumbers []string) ([]*entity.DailyPart, error) {
	rows, err := r.q.Query(ctx, dailySelect+` WHERE part_number = ANY($1) ORDER BY upload_date DESC, id`, partNumbers)
	if err != nil {
		return nil, fmt.Errorf("list daily parts by part number: %w", err)
	}
	return collect(rows, scanDailyPart)
}

// ListAll lee todo el maestro diario por páginas.
func (r *DailyPartRepo) ListAll(ctx context.Context) ([]*entity.DailyPart, error) {
	pq := PageQuery{Table: dailyTable, Columns: dailyColumns, OrderBy: "upload_date"}
	list, err := readAll(ctx, r.q, r.pageSize, pq, scanDailyPart)
	if err != nil {
		return nil, fmt.Errorf("list daily parts: %w", err)
	}
	return list, nil
}

const dailySelect = `
	SELECT id, part_number, description, category, latest_bin, latest_stock, upload_date
	FROM ` + dailyTable

func scanDailyPart(row pgx.Row) (*entity.DailyPart, error) {
	var p entity.DailyPart
	err := row.Scan(&p.ID, &p.PartNumber, &p.Description, &p.Category, &p.LatestBin, &p.LatestStock, &p.UploadDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ─── Average ──────────────────────────────────────────────────────────────────

var _ repository.AverageCountRepository = (*AverageCountRepo)(nil)

// AverageCountRepo referencia de promedios sobre PostgreSQL.
type AverageCountRepo struct {
	q Querier
}

// NewAverageCountRepository construye el adaptador.
func NewAverageCountRepository(q Querier) *AverageCountRepo {
	return &AverageCountRepo{q: q}
}

// UpsertBatch inserta o actualiza un lote en un solo comando. Las llaves del lote deben ser únicas.
func (r *AverageCountRepo) UpsertBatch(ctx context.Context, items []*entity.AverageCount) error {
	if len(items) == 0 {
		return nil
	}
	pns := make([]string, len(items))
	counts := make([]decimal.Decimal, len(items))
	updated := make([]time.Time, len(items))
	for i, it := range items {
		pns[i] = it.PartNumber
		counts[i] = it.AverageCount
		updated[i] = it.UpdatedAt
	}
	query := `
		INSERT INTO ` + averageTable + ` (part_number, average_count, updated_at)
		SELECT * FROM unnest($1::text[], $2::numeric[], $3::timestamptz[])
		ON CONFLICT (part_number)
		DO UPDATE SET average_count = EXCLUDED.average_count, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, pns, counts, updated); err != nil {
		return fmt.Errorf("upsert average counts: %w", err)
	}
	return nil
}

// GetByPartNumber promedio de una parte; (nil, nil) si no existe.
func (r *AverageCountRepo) GetByPartNumber(ctx context.Context, partNumber string) (*entity.AverageCount, error) {
	a, err := scanAverage(r.q.QueryRow(ctx, averageSelect+` WHERE part_number = $1`, partNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get average count: %w", err)
	}
	return a, nil
}

// ListByPartNumbers un lote de llaves.
func (r *AverageCountRepo) ListByPartNumbers(ctx context.Context, partNumbers []string) ([]*entity.AverageCount, error) {
	rows, err := r.q.Query(ctx, averageSelect+` WHERE part_number = ANY($1)`, partNumbers)
	if err != nil {
		return nil, fmt.Errorf("list average counts by part number: %w", err)
	}
	return collect(rows, scanAverage)
}

const averageSelect = `SELECT part_number, average_count, updated_at FROM ` + averageTable

func scanAverage(row pgx.Row) (*entity.AverageCount, error) {
	var a entity.AverageCount
	if err := row.Scan(&a.PartNumber, &a.AverageCount, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
