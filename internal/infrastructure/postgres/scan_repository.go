package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
	"github.com/jhoicas/stockcount-api/pkg/batch"
)

var _ repository.ScanRepository = (*ScanRepo)(nil)

const scanPartNumberKey = "scans_part_number_key"

const scanSelect = `
	SELECT s.id, s.part_number, s.scan_code, s.description, s.system_stock, s.physical_qty, s.difference,
	       s.actual_bin, s.new_bin_location, s.remark_type, s.remark_detail, s.damage_qty, s.nn_carton_no,
	       s.scanned_by, COALESCE(s.location_id::text, ''), COALESCE(l.name, ''), s.created_at, s.updated_at
	FROM scans s
	LEFT JOIN locations l ON l.id = s.location_id`

// ScanRepo implementación de ScanRepository sobre PostgreSQL (usable con pool o tx).
type ScanRepo struct {
	q        Querier
	pageSize int
}

// NewScanRepository construye el adaptador. pageSize son las filas por página de ListAll.
func NewScanRepository(q Querier, pageSize int) *ScanRepo {
	return &ScanRepo{q: q, pageSize: pageSize}
}

// Create inserta un conteo. La restricción UNIQUE(part_number) decide los duplicados.
func (r *ScanRepo) Create(ctx context.Context, s *entity.Scan) error {
	query := `
		INSERT INTO scans (id, part_number, scan_code, description, system_stock, physical_qty, difference,
			actual_bin, new_bin_location, remark_type, remark_detail, damage_qty, nn_carton_no, scanned_by,
			location_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, '')::uuid, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.PartNumber, s.ScanCode, s.Description, s.SystemStock, s.PhysicalQty, s.Difference,
		s.ActualBin, s.NewBinLocation, s.RemarkType, s.RemarkDetail, s.DamageQty, s.CartonNo, s.ScannedBy,
		s.LocationID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if c := violatedConstraint(err); c == "" || c == scanPartNumberKey {
				return domain.ErrDuplicateScan
			}
		}
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

// Update reescribe los campos editables. El snapshot de stock viaja en s.
func (r *ScanRepo) Update(ctx context.Context, s *entity.Scan) error {
	query := `
		UPDATE scans SET description = $2, system_stock = $3, physical_qty = $4, difference = $5,
			actual_bin = $6, new_bin_location = $7, remark_type = $8, remark_detail = $9, damage_qty = $10,
			nn_carton_no = $11, scanned_by = $12, location_id = NULLIF($13, '')::uuid, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Description, s.SystemStock, s.PhysicalQty, s.Difference,
		s.ActualBin, s.NewBinLocation, s.RemarkType, s.RemarkDetail, s.DamageQty,
		s.CartonNo, s.ScannedBy, s.LocationID, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update scan: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un conteo por ID.
func (r *ScanRepo) GetByID(ctx context.Context, id string) (*entity.Scan, error) {
	return r.findOne(ctx, scanSelect+` WHERE s.id = $1`, id)
}

// GetByPartNumber obtiene el conteo de una parte (como máximo uno).
func (r *ScanRepo) GetByPartNumber(ctx context.Context, partNumber string) (*entity.Scan, error) {
	return r.findOne(ctx, scanSelect+` WHERE s.part_number = $1`, partNumber)
}

// ListAll lee todos los conteos, más recientes primero, por páginas.
func (r *ScanRepo) ListAll(ctx context.Context) ([]*entity.Scan, error) {
	page := pageQuery(r.q, scanSelect+` ORDER BY s.created_at DESC, s.id LIMIT $1 OFFSET $2`, scanScan)
	list, err := batch.FetchAll(ctx, r.pageSize, page)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return list, nil
}

// Delete elimina un conteo. Devuelve false si no existía.
func (r *ScanRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM scans WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete scan: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DeleteAll vacía la tabla de conteos.
func (r *ScanRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM scans`)
	if err != nil {
		return 0, fmt.Errorf("delete all scans: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *ScanRepo) findOne(ctx context.Context, query, arg string) (*entity.Scan, error) {
	s, err := scanScan(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return s, nil
}

func scanScan(row pgx.Row) (*entity.Scan, error) {
	var s entity.Scan
	err := row.Scan(
		&s.ID, &s.PartNumber, &s.ScanCode, &s.Description, &s.SystemStock, &s.PhysicalQty, &s.Difference,
		&s.ActualBin, &s.NewBinLocation, &s.RemarkType, &s.RemarkDetail, &s.DamageQty, &s.CartonNo,
		&s.ScannedBy, &s.LocationID, &s.LocationName, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
