package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
)

func TestMemoryMetricsCache_TTLeInvalidacion(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	c := NewMemoryMetricsCache(30 * time.Second)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, gen, &dto.MetricsDTO{ScannedCount: 2}))
	m, ok, _ := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 2, m.ScannedCount)

	now = now.Add(31 * time.Second)
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, gen, &dto.MetricsDTO{ScannedCount: 3}))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok)
}

func TestMemoryMetricsCache_SetConGeneracionVencidaNoPublica(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryMetricsCache(0)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, gen, &dto.MetricsDTO{ScannedCount: 2}))
	_, ok, _ := c.Get(ctx)
	assert.False(t, ok)

	gen, _ = c.Generation(ctx)
	require.NoError(t, c.Set(ctx, gen, &dto.MetricsDTO{ScannedCount: 3}))
	m, ok, _ := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, m.ScannedCount)
}

func TestMemoryPreferenceStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPreferenceStore()
	got, err := s.Load(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, got.LastLocationID)

	require.NoError(t, s.Save(ctx, "u-1", dto.PreferencesDTO{LastLocationID: "loc-1"}))
	got, _ = s.Load(ctx, "u-1")
	assert.Equal(t, "loc-1", got.LastLocationID)
}
