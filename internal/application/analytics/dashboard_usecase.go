// Package analytics contiene el caso de uso de métricas del dashboard de conteo.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
	"github.com/jhoicas/stockcount-api/pkg/logger"
	"github.com/jhoicas/stockcount-api/pkg/refresh"
)

// DashboardUseCase calcula las métricas globales del conteo.
//
// Fuente de datos: todos los conteos y todo el maestro base (lectura paginada).
// El snapshot se guarda en MetricsCache; el motor de conteo y las cargas solo lo invalidan.
type DashboardUseCase struct {
	scans repository.ScanRepository
	base  repository.BasePartRepository
	cache ports.MetricsCache // opcional
	log   *logger.Logger
	group singleflight.Group
	now   func() time.Time
}

var _ ports.AggregateInvalidator = (*DashboardUseCase)(nil)

// NewDashboardUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewDashboardUseCase(
	scans repository.ScanRepository,
	base repository.BasePartRepository,
	cache ports.MetricsCache,
	log *logger.Logger,
) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{scans: scans, base: base, cache: cache, log: log.Component("dashboard"), now: time.Now}
}

// GetMetrics devuelve el snapshot vigente o lo recalcula. Un fallo del caché no es fatal.
func (uc *DashboardUseCase) GetMetrics(ctx context.Context) (*dto.MetricsDTO, error) {
	if uc.cache != nil {
		m, ok, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de métricas no disponible")
		} else if ok {
			return m, nil
		}
	}
	v, err, _ := uc.group.Do(uc.flightKey(ctx), func() (any, error) {
		return uc.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.MetricsDTO), nil
}

// Refresh recalcula y publica el snapshot (tarea del refresh.Runner).
func (uc *DashboardUseCase) Refresh(ctx context.Context) error {
	_, err := uc.compute(ctx)
	return err
}

// Invalidate descarta el snapshot para que la próxima lectura lo recalcule.
func (uc *DashboardUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar el caché de métricas")
	}
}

// flightKey agrupa cálculos concurrentes de la misma generación; tras invalidar no se reusa
// un cálculo iniciado antes.
func (uc *DashboardUseCase) flightKey(ctx context.Context) string {
	if uc.cache == nil {
		return "metrics"
	}
	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		return "metrics"
	}
	return fmt.Sprintf("metrics:%d", gen)
}

func (uc *DashboardUseCase) compute(ctx context.Context) (*dto.MetricsDTO, error) {
	// la generación se fija antes de leer: un snapshot calculado con datos ya invalidados no se publica.
	var (
		gen    int64
		genErr error
	)
	if uc.cache != nil {
		gen, genErr = uc.cache.Generation(ctx)
		if genErr != nil {
			uc.log.Warn().Err(genErr).Msg("caché de métricas no disponible")
		}
	}

	var (
		scans []*entity.Scan
		base  []*entity.BasePart
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scans, err = uc.scans.ListAll(gctx)
		if err != nil {
			return domain.NewPersistenceError("dashboard: leer conteos", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		base, err = uc.base.ListAll(gctx)
		if err != nil {
			return domain.NewPersistenceError("dashboard: leer maestro base", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := toMetricsDTO(reconciliation.ComputeMetrics(scans, base), uc.now())
	if uc.cache != nil && genErr == nil {
		if err := uc.cache.Set(ctx, gen, m); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar el snapshot de métricas")
		}
	}
	return m, nil
}

func toMetricsDTO(m reconciliation.Metrics, at time.Time) *dto.MetricsDTO {
	return &dto.MetricsDTO{
		TotalPartCount:   m.TotalPartCount,
		TotalValue:       m.TotalValue.Round(2),
		ScannedCount:     m.ScannedCount,
		ShortCount:       m.ShortCount,
		ExcessCount:      m.ExcessCount,
		MatchedCount:     m.MatchedCount,
		TotalShortQty:    m.TotalShortQty,
		TotalShortValue:  m.TotalShortValue.Round(2),
		TotalExcessQty:   m.TotalExcessQty,
		TotalExcessValue: m.TotalExcessValue.Round(2),
		NetImpact:        m.NetImpact.Round(2),
		NetImpactPercent: m.NetImpactPercent,
		ProgressPercent:  m.ProgressPercent,
		GeneratedAt:      at,
	}
}

// SyncPolicy contrato de refresco publicado a los clientes.
func SyncPolicy(p refresh.Policy) dto.SyncPolicyResponse {
	return dto.SyncPolicyResponse{
		IntervalSeconds:       p.Interval.Seconds(),
		JitterMillis:          p.Jitter.Milliseconds(),
		MaxBackoffSeconds:     p.MaxBackoff.Seconds(),
		StalenessBoundSeconds: p.StalenessBound().Seconds(),
	}
}

