package masters

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
	"github.com/jhoicas/stockcount-api/pkg/batch"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

// DefaultAverageBatch filas por lote en el upsert de promedios.
const DefaultAverageBatch = 50

// Tipos de carga.
const (
	KindBase    = "base"
	KindDaily   = "daily"
	KindAverage = "average"
)

// IngestUseCase cargas masivas de los tres maestros y sus borrados destructivos.
type IngestUseCase struct {
	base        repository.BasePartRepository
	daily       repository.DailyPartRepository
	avg         repository.AverageCountRepository
	invalidator ports.AggregateInvalidator
	avgBatch    int
	log         *logger.Logger
	metrics     ports.Metrics
	now         func() time.Time
}

// NewIngestUseCase construye el caso de uso. avgBatch <= 0 usa DefaultAverageBatch.
func NewIngestUseCase(
	base repository.BasePartRepository,
	daily repository.DailyPartRepository,
	avg repository.AverageCountRepository,
	invalidator ports.AggregateInvalidator,
	avgBatch int,
	log *logger.Logger,
	metrics ports.Metrics,
) *IngestUseCase {
	if avgBatch <= 0 {
		avgBatch = DefaultAverageBatch
	}
	if invalidator == nil {
		invalidator = ports.NopInvalidator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &IngestUseCase{
		base: base, daily: daily, avg: avg, invalidator: invalidator, avgBatch: avgBatch,
		log: log.Component("masters"), metrics: metrics, now: time.Now,
	}
}

// BaseStatus indica si el maestro base está bloqueado (tiene filas).
func (uc *IngestUseCase) BaseStatus(ctx context.Context) (*dto.BaseStatusResponse, error) {
	n, err := uc.base.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("maestro base: contar", err)
	}
	return &dto.BaseStatusResponse{Locked: n > 0, Count: n}, nil
}

// IngestBase carga el maestro base (columnas B,D,E,F,G,L). Se rechaza con *domain.LockedResourceError
// si ya existe alguna fila; la verificación definitiva ocurre dentro de la transacción del repositorio.
func (uc *IngestUseCase) IngestBase(ctx context.Context, rows []ports.SheetRow) (*dto.IngestSummary, error) {
	n, err := uc.base.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("maestro base: contar", err)
	}
	if n > 0 {
		return nil, &domain.LockedResourceError{Resource: "maestro base"}
	}

	summary := &dto.IngestSummary{Kind: KindBase, Rows: len(rows)}
	now := uc.now()
	parts := make([]*entity.BasePart, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		pn := partNumber(row, baseColPart)
		if pn == "" {
			summary.Skipped++
			continue
		}
		if _, dup := seen[pn]; dup {
			summary.Duplicates++
			continue
		}
		seen[pn] = struct{}{}
		parts = append(parts, &entity.BasePart{
			PartNumber:    pn,
			Description:   cell(row, baseColDesc),
			Category:      cell(row, baseColCategory),
			DefaultBin:    cell(row, baseColBin),
			PurchasePrice: parseNumber(row[baseColPrice]),
			BaseStock:     parseNumber(row[baseColStock]),
			CreatedAt:     now,
		})
	}
	if len(parts) == 0 {
		return nil, domain.NewValidationError("file", "la planilla no tiene filas con número de parte (columna B)")
	}

	inserted, err := uc.base.InsertAllIfEmpty(ctx, parts)
	if err != nil {
		uc.metrics.IngestFinished(KindBase, dto.IngestFailed, summary.Rows)
		var locked *domain.LockedResourceError
		if errors.As(err, &locked) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("maestro base: insertar", err)
	}
	summary.Inserted = inserted
	summary.Status = dto.IngestSuccess

	uc.finish(ctx, summary)
	return summary, nil
}

// IngestDaily reemplaza completo el maestro diario (columnas A,C,D): borra todo e inserta en una
// transacción. Nunca combina con la carga anterior.
func (uc *IngestUseCase) IngestDaily(ctx context.Context, rows []ports.SheetRow) (*dto.IngestSummary, error) {
	summary := &dto.IngestSummary{Kind: KindDaily, Rows: len(rows)}
	now := uc.now()
	parts := make([]*entity.DailyPart, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		pn := partNumber(row, dailyColPart)
		if pn == "" {
			summary.Skipped++
			continue
		}
		part := &entity.DailyPart{
			PartNumber:  pn,
			LatestBin:   cell(row, dailyColBin),
			LatestStock: parseNumber(row[dailyColStock]),
			UploadDate:  now,
		}
		// todas las filas comparten upload_date: una sola por parte, gana la última.
		if i, dup := index[pn]; dup {
			summary.Duplicates++
			parts[i] = part
			continue
		}
		index[pn] = len(parts)
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, domain.NewValidationError("file", "la planilla no tiene filas con número de parte (columna A)")
	}

	inserted, err := uc.daily.ReplaceAll(ctx, parts)
	if err != nil {
		uc.metrics.IngestFinished(KindDaily, dto.IngestFailed, summary.Rows)
		return nil, domain.NewPersistenceError("maestro diario: reemplazar", err)
	}
	summary.Inserted = inserted
	summary.Status = dto.IngestSuccess

	uc.finish(ctx, summary)
	return summary, nil
}

// IngestAverage hace upsert de promedios (columnas A,B) en lotes. Un lote fallido se cuenta y no
// detiene los demás; los lotes ya aplicados no se revierten.
func (uc *IngestUseCase) IngestAverage(ctx context.Context, rows []ports.SheetRow) (*dto.IngestSummary, error) {
	summary := &dto.IngestSummary{Kind: KindAverage, Rows: len(rows)}
	now := uc.now()
	items := make([]*entity.AverageCount, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		pn := partNumber(row, avgColPart)
		if pn == "" {
			summary.Skipped++
			continue
		}
		item := &entity.AverageCount{PartNumber: pn, AverageCount: parseNumber(row[avgColCount]), UpdatedAt: now}
		// ON CONFLICT no admite la misma llave dos veces en un mismo comando: gana la última fila.
		if i, dup := index[pn]; dup {
			summary.Duplicates++
			items[i] = item
			continue
		}
		index[pn] = len(items)
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError("file", "la planilla no tiene filas con número de parte (columna A)")
	}

	chunks := batch.Chunk(items, uc.avgBatch)
	summary.Batches = len(chunks)
	summary.Succeeded, summary.Failed = batch.ForEachChunk(items, uc.avgBatch, func(i int, chunk []*entity.AverageCount) error {
		if err := uc.avg.UpsertBatch(ctx, chunk); err != nil {
			uc.log.Warn().Err(err).Int("batch", i).Int("size", len(chunk)).Msg("lote de promedios rechazado")
			return err
		}
		summary.Inserted += len(chunk)
		return nil
	})

	switch {
	case summary.Failed == 0:
		summary.Status = dto.IngestSuccess
	case summary.Succeeded == 0:
		summary.Status = dto.IngestFailed
	default:
		summary.Status = dto.IngestPartial
	}

	uc.finish(ctx, summary)
	return summary, nil
}

// WipeBase borra todo el maestro base y lo desbloquea. Requiere confirm.
func (uc *IngestUseCase) WipeBase(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, domain.ErrConfirmationRequired
	}
	n, err := uc.base.DeleteAll(ctx)
	if err != nil {
		return 0, domain.NewPersistenceError("maestro base: borrar", err)
	}
	uc.log.Warn().Int64("deleted", n).Msg("maestro base borrado")
	uc.invalidator.Invalidate(ctx)
	return n, nil
}

// ClearDaily vacía el maestro diario. Requiere confirm.
func (uc *IngestUseCase) ClearDaily(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, domain.ErrConfirmationRequired
	}
	n, err := uc.daily.DeleteAll(ctx)
	if err != nil {
		return 0, domain.NewPersistenceError("maestro diario: borrar", err)
	}
	uc.log.Warn().Int64("deleted", n).Msg("maestro diario vaciado")
	uc.invalidator.Invalidate(ctx)
	return n, nil
}

func (uc *IngestUseCase) finish(ctx context.Context, s *dto.IngestSummary) {
	uc.metrics.IngestFinished(s.Kind, s.Status, s.Rows)
	uc.log.Info().
		Str("kind", s.Kind).
		Int("rows", s.Rows).
		Int("inserted", s.Inserted).
		Int("skipped", s.Skipped).
		Int("duplicates", s.Duplicates).
		Int("failed_batches", s.Failed).
		Str("status", s.Status).
		Msg("carga de maestro finalizada")
	uc.invalidator.Invalidate(ctx)
}
