package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
)

var _ ports.MetricsCache = (*MemoryMetricsCache)(nil)

// MemoryMetricsCache snapshot en proceso con TTL.
type MemoryMetricsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	m       *dto.MetricsDTO
	gen     int64
	expires time.Time
	now     func() time.Time
}

// NewMemoryMetricsCache construye la caché. ttl <= 0 no expira.
func NewMemoryMetricsCache(ttl time.Duration) *MemoryMetricsCache {
	return &MemoryMetricsCache{ttl: ttl, now: time.Now}
}

func (c *MemoryMetricsCache) Get(context.Context) (*dto.MetricsDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().After(c.expires) {
		c.m = nil
		return nil, false, nil
	}
	return c.m, true, nil
}

func (c *MemoryMetricsCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

// Set no hace nada si hubo una invalidación después de leer gen.
func (c *MemoryMetricsCache) Set(_ context.Context, gen int64, m *dto.MetricsDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.m = m
	c.expires = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryMetricsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.m = nil
	return nil
}

var _ ports.PreferenceStore = (*MemoryPreferenceStore)(nil)

// MemoryPreferenceStore preferencias en proceso (se pierden al reiniciar).
type MemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]dto.PreferencesDTO
}

// NewMemoryPreferenceStore construye el almacén vacío.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{data: map[string]dto.PreferencesDTO{}}
}

func (s *MemoryPreferenceStore) Load(_ context.Context, userID string) (dto.PreferencesDTO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[userID], nil
}

func (s *MemoryPreferenceStore) Save(_ context.Context, userID string, prefs dto.PreferencesDTO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = prefs
	return nil
}
