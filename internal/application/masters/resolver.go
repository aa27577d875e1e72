package masters

import (
	"context"
	"sync"

	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
	"github.com/jhoicas/stockcount-api/pkg/batch"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

// DefaultChunkSize llaves por consulta IN.
const DefaultChunkSize = 200

// Enrichment resultado del enriquecimiento por lotes.
type Enrichment struct {
	Chunks       int
	FailedChunks int
}

// Partial indica si algún lote falló (enriquecimiento incompleto).
func (e Enrichment) Partial() bool { return e.FailedChunks > 0 }

// Err devuelve un *domain.PartialResultError si hubo lotes fallidos.
func (e Enrichment) Err(op string) error {
	if !e.Partial() {
		return nil
	}
	return &domain.PartialResultError{Op: op, Failed: e.FailedChunks, Total: e.Chunks}
}

func (e Enrichment) add(chunks, failed int) Enrichment {
	return Enrichment{Chunks: e.Chunks + chunks, FailedChunks: e.FailedChunks + failed}
}

// Catalog maestro base completo más el índice resuelto de todas sus partes.
type Catalog struct {
	Base       []*entity.BasePart
	Index      reconciliation.MasterIndex
	Enrichment Enrichment
}

// ResolverUseCase resuelve la vista de maestros (base + diario + promedios) de un conjunto de partes.
type ResolverUseCase struct {
	base      repository.BasePartRepository
	daily     repository.DailyPartRepository
	avg       repository.AverageCountRepository
	chunkSize int
	log       *logger.Logger
	metrics   ports.Metrics
}

// NewResolverUseCase construye el resolver. chunkSize <= 0 usa DefaultChunkSize.
func NewResolverUseCase(
	base repository.BasePartRepository,
	daily repository.DailyPartRepository,
	avg repository.AverageCountRepository,
	chunkSize int,
	log *logger.Logger,
	metrics ports.Metrics,
) *ResolverUseCase {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ResolverUseCase{base: base, daily: daily, avg: avg, chunkSize: chunkSize, log: log.Component("resolver"), metrics: metrics}
}

// ResolveMany consulta las tres fuentes por lotes (en paralelo) y las combina.
// Un lote fallido se registra y se omite; Enrichment informa cuántos fallaron.
func (uc *ResolverUseCase) ResolveMany(ctx context.Context, partNumbers []string) (reconciliation.MasterIndex, Enrichment) {
	keys := make([]string, 0, len(partNumbers))
	for _, pn := range partNumbers {
		keys = append(keys, entity.NormalizePartNumber(pn))
	}
	keys = batch.Unique(keys)

	var (
		wg    sync.WaitGroup
		base  batch.LookupResult[*entity.BasePart]
		daily batch.LookupResult[*entity.DailyPart]
		avg   batch.LookupResult[*entity.AverageCount]
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		base = batch.ChunkedLookup(ctx, keys, uc.chunkSize, uc.base.ListByPartNumbers, uc.onChunkError("base_part_master"))
	}()
	go func() {
		defer wg.Done()
		daily = batch.ChunkedLookup(ctx, keys, uc.chunkSize, uc.daily.ListByPartNumbers, uc.onChunkError("daily_part_master"))
	}()
	go func() {
		defer wg.Done()
		avg = batch.ChunkedLookup(ctx, keys, uc.chunkSize, uc.avg.ListByPartNumbers, uc.onChunkError("average_counts"))
	}()
	wg.Wait()

	enr := Enrichment{}.
		add(base.Chunks, base.Failed).
		add(daily.Chunks, daily.Failed).
		add(avg.Chunks, avg.Failed)
	if enr.Partial() {
		uc.metrics.LookupChunksFailed("resolve_many", enr.FailedChunks)
	}
	return reconciliation.MergeMasters(base.Items, daily.Items, avg.Items), enr
}

// ResolveOne resuelve una sola parte. Devuelve (nil, nil) si ninguna fuente la conoce.
// A diferencia de ResolveMany, un fallo de lectura es fatal para la operación.
func (uc *ResolverUseCase) ResolveOne(ctx context.Context, partNumber string) (*reconciliation.MasterEntry, error) {
	pn := entity.NormalizePartNumber(partNumber)
	if pn == "" {
		return nil, domain.NewValidationError("part_number", "requerido")
	}

	b, err := uc.base.GetByPartNumber(ctx, pn)
	if err != nil {
		return nil, domain.NewPersistenceError("resolver: maestro base", err)
	}
	d, err := uc.daily.GetLatestByPartNumber(ctx, pn)
	if err != nil {
		return nil, domain.NewPersistenceError("resolver: maestro diario", err)
	}
	a, err := uc.avg.GetByPartNumber(ctx, pn)
	if err != nil {
		return nil, domain.NewPersistenceError("resolver: promedios", err)
	}

	var (
		base  []*entity.BasePart
		daily []*entity.DailyPart
		avg   []*entity.AverageCount
	)
	if b != nil {
		base = append(base, b)
	}
	if d != nil {
		daily = append(daily, d)
	}
	if a != nil {
		avg = append(avg, a)
	}
	entry, ok := reconciliation.MergeMasters(base, daily, avg).Lookup(pn)
	if !ok {
		return nil, nil
	}
	return entry, nil
}

// ResolveCatalog lee el maestro base y el diario completos (lectura paginada, falla rápido) y
// enriquece con promedios por lotes.
func (uc *ResolverUseCase) ResolveCatalog(ctx context.Context) (*Catalog, error) {
	base, err := uc.base.ListAll(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("resolver: leer maestro base", err)
	}
	daily, err := uc.daily.ListAll(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("resolver: leer maestro diario", err)
	}

	keys := make([]string, 0, len(base))
	for _, b := range base {
		keys = append(keys, b.PartNumber)
	}
	avg := batch.ChunkedLookup(ctx, keys, uc.chunkSize, uc.avg.ListByPartNumbers, uc.onChunkError("average_counts"))
	if avg.Partial() {
		uc.metrics.LookupChunksFailed("resolve_catalog", avg.Failed)
	}

	return &Catalog{
		Base:       base,
		Index:      reconciliation.MergeMasters(base, daily, avg.Items),
		Enrichment: Enrichment{Chunks: avg.Chunks, FailedChunks: avg.Failed},
	}, nil
}

func (uc *ResolverUseCase) onChunkError(table string) batch.ChunkErrorFunc {
	return func(chunk int, keys []string, err error) {
		uc.log.Warn().
			Err(err).
			Str("table", table).
			Int("chunk", chunk).
			Int("keys", len(keys)).
			Msg("lote de búsqueda fallido, se omite")
	}
}
