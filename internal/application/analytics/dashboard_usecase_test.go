package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/testutil/memrepo"
	"github.com/jhoicas/stockcount-api/pkg/refresh"
)

// ─── fakes ────────────────────────────────────────────────────────────────────

type memCache struct {
	mu          sync.Mutex
	m           *dto.MetricsDTO
	gen         int64
	gets, sets  int
	invalidated int
	failGet     bool
}

func (c *memCache) Get(context.Context) (*dto.MetricsDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, memrepo.ErrInjected
	}
	return c.m, c.m != nil, nil
}

func (c *memCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memCache) Set(_ context.Context, gen int64, m *dto.MetricsDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.sets++
	c.m = m
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.gen++
	c.m = nil
	return nil
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newDashboard(cache *memCache) (*DashboardUseCase, *memrepo.Scans, *memrepo.BaseParts) {
	base := memrepo.NewBaseParts(
		&entity.BasePart{PartNumber: "P1", PurchasePrice: d(50), BaseStock: d(10)},
		&entity.BasePart{PartNumber: "P2", PurchasePrice: d(20), BaseStock: d(5)},
		&entity.BasePart{PartNumber: "P3", PurchasePrice: d(10), BaseStock: d(0)},
		&entity.BasePart{PartNumber: "P4", PurchasePrice: d(1), BaseStock: d(0)},
	)
	scans := memrepo.NewScans(
		&entity.Scan{PartNumber: "P1", SystemStock: d(10), PhysicalQty: d(8)},
		&entity.Scan{PartNumber: "P2", SystemStock: d(5), PhysicalQty: d(5)},
	)
	uc := NewDashboardUseCase(scans, base, nil, nil)
	if cache != nil {
		uc = NewDashboardUseCase(scans, base, cache, nil)
	}
	uc.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }
	return uc, scans, base
}

// ─── GetMetrics ───────────────────────────────────────────────────────────────

func TestGetMetrics_Calcula(t *testing.T) {
	uc, _, _ := newDashboard(nil)
	m, err := uc.GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, m.TotalPartCount)
	assert.Equal(t, 2, m.ScannedCount)
	assert.Equal(t, 1, m.ShortCount)
	assert.Equal(t, 1, m.MatchedCount)
	assert.True(t, m.TotalValue.Equal(d(600)))
	assert.True(t, m.TotalShortValue.Equal(d(100)))
	assert.True(t, m.NetImpact.Equal(d(-100)))
	assert.True(t, m.ProgressPercent.Equal(d(50)))
	assert.Equal(t, "-16.6667", m.NetImpactPercent.String())
}

func TestGetMetrics_UsaCacheHastaInvalidar(t *testing.T) {
	cache := &memCache{}
	uc, scans, _ := newDashboard(cache)
	ctx := context.Background()

	first, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, scans.Create(ctx, &entity.Scan{PartNumber: "P3", SystemStock: d(0), PhysicalQty: d(2)}))
	cached, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	uc.Invalidate(ctx)
	assert.Equal(t, 1, cache.invalidated)

	fresh, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.ScannedCount)
	assert.Equal(t, 1, fresh.ExcessCount)
}

func TestGetMetrics_InvalidacionDuranteCalculoNoPublicaSnapshotViejo(t *testing.T) {
	cache := &memCache{}
	uc, scans, _ := newDashboard(cache)
	ctx := context.Background()

	fired := false
	scans.AfterList = func() {
		if fired {
			return
		}
		fired = true
		assert.NoError(t, scans.Create(ctx, &entity.Scan{PartNumber: "P3", SystemStock: d(0), PhysicalQty: d(2)}))
		uc.Invalidate(ctx)
	}

	stale, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stale.ScannedCount)
	assert.Equal(t, 0, cache.sets)

	fresh, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.ScannedCount)
	assert.Equal(t, 1, cache.sets)
}

func TestGetMetrics_FalloDeCacheNoEsFatal(t *testing.T) {
	cache := &memCache{failGet: true}
	uc, _, _ := newDashboard(cache)
	m, err := uc.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.ScannedCount)
}

func TestGetMetrics_LecturaFallidaEsReintentable(t *testing.T) {
	uc, _, base := newDashboard(nil)
	base.FailList = true
	_, err := uc.GetMetrics(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestRefresh_PublicaSnapshot(t *testing.T) {
	cache := &memCache{}
	uc, _, _ := newDashboard(cache)
	require.NoError(t, uc.Refresh(context.Background()))
	require.NotNil(t, cache.m)
	assert.Equal(t, 2, cache.m.ScannedCount)
}

func TestSyncPolicy(t *testing.T) {
	p := refresh.Policy{Interval: 5 * time.Second, Jitter: 500 * time.Millisecond, MaxBackoff: time.Minute}
	got := SyncPolicy(p)
	assert.Equal(t, 5.0, got.IntervalSeconds)
	assert.Equal(t, int64(500), got.JitterMillis)
	assert.Equal(t, 60.0, got.MaxBackoffSeconds)
	assert.Equal(t, 5.5, got.StalenessBoundSeconds)
}
