// Package cache guarda el snapshot de métricas y las preferencias de operador en Redis,
// con variantes en memoria cuando Redis no está configurado.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/pkg/config"
)

const (
	keyPrefix      = "stockcount:"
	metricsGenKey  = keyPrefix + "metrics:gen"
	prefsKeyPrefix = keyPrefix + "prefs:"
	prefLastLoc    = "last_location_id"
)

// NewRedisClient conecta con Redis y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// ─── Métricas ─────────────────────────────────────────────────────────────────

var _ ports.MetricsCache = (*RedisMetricsCache)(nil)

// RedisMetricsCache snapshot por generación: invalidar incrementa la generación y el
// snapshot anterior deja de leerse (expira por TTL).
type RedisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMetricsCache construye la caché.
func NewRedisMetricsCache(client *redis.Client, ttl time.Duration) *RedisMetricsCache {
	return &RedisMetricsCache{client: client, ttl: ttl}
}

func snapshotKey(gen int64) string {
	return fmt.Sprintf("%smetrics:%d", keyPrefix, gen)
}

func (c *RedisMetricsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, metricsGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("redis: generación de métricas: %w", err)
	}
	return gen, nil
}

func (c *RedisMetricsCache) Get(ctx context.Context) (*dto.MetricsDTO, bool, error) {
	gen, err := c.Generation(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, snapshotKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: leer métricas: %w", err)
	}
	var m dto.MetricsDTO
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("redis: decodificar métricas: %w", err)
	}
	return &m, true, nil
}

// Set escribe bajo la generación leída antes del cálculo. Si ya avanzó, la llave no se vuelve
// a leer y expira por TTL.
func (c *RedisMetricsCache) Set(ctx context.Context, gen int64, m *dto.MetricsDTO) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(gen), raw, c.ttl).Err()
}

func (c *RedisMetricsCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, metricsGenKey).Err()
}

// ─── Preferencias ─────────────────────────────────────────────────────────────

var _ ports.PreferenceStore = (*RedisPreferenceStore)(nil)

// RedisPreferenceStore preferencias como hash por usuario.
type RedisPreferenceStore struct {
	client *redis.Client
}

// NewRedisPreferenceStore construye el almacén.
func NewRedisPreferenceStore(client *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client}
}

func (s *RedisPreferenceStore) Load(ctx context.Context, userID string) (dto.PreferencesDTO, error) {
	v, err := s.client.HGet(ctx, prefsKeyPrefix+userID, prefLastLoc).Result()
	if errors.Is(err, redis.Nil) {
		return dto.PreferencesDTO{}, nil
	}
	if err != nil {
		return dto.PreferencesDTO{}, fmt.Errorf("redis: leer preferencias: %w", err)
	}
	return dto.PreferencesDTO{LastLocationID: v}, nil
}

func (s *RedisPreferenceStore) Save(ctx context.Context, userID string, prefs dto.PreferencesDTO) error {
	if err := s.client.HSet(ctx, prefsKeyPrefix+userID, prefLastLoc, prefs.LastLocationID).Err(); err != nil {
		return fmt.Errorf("redis: guardar preferencias: %w", err)
	}
	return nil
}
