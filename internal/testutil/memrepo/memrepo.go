// Package memrepo implementa en memoria los puertos de repositorio para pruebas de casos de uso.
// Cada repositorio admite inyectar errores por operación (Fail*).
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
)

// ErrInjected error usado por las fallas inyectadas.
var ErrInjected = errors.New("memrepo: falla inyectada")

// ErrInvalidID lo que devuelve el driver al codificar un id que no es uuid.
var ErrInvalidID = errors.New("memrepo: id no es uuid")

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// ─── Base ─────────────────────────────────────────────────────────────────────

// BaseParts repositorio en memoria del maestro base.
type BaseParts struct {
	mu    sync.Mutex
	rows  map[string]*entity.BasePart
	order []string

	FailInsert bool
	FailList   bool
	// FailChunkWith hace fallar ListByPartNumbers cuando el lote contiene esa llave.
	FailChunkWith string
}

var _ repository.BasePartRepository = (*BaseParts)(nil)

// NewBaseParts crea el repositorio con filas iniciales.
func NewBaseParts(parts ...*entity.BasePart) *BaseParts {
	r := &BaseParts{rows: map[string]*entity.BasePart{}}
	for _, p := range parts {
		r.put(p)
	}
	return r
}

func (r *BaseParts) put(p *entity.BasePart) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := r.rows[p.PartNumber]; !ok {
		r.order = append(r.order, p.PartNumber)
	}
	r.rows[p.PartNumber] = p
}

func (r *BaseParts) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func (r *BaseParts) InsertAllIfEmpty(_ context.Context, parts []*entity.BasePart) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) > 0 {
		return 0, &domain.LockedResourceError{Resource: "maestro base"}
	}
	if r.FailInsert {
		return 0, ErrInjected
	}
	for _, p := range parts {
		r.put(p)
	}
	return len(parts), nil
}

func (r *BaseParts) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = map[string]*entity.BasePart{}
	r.order = nil
	return n, nil
}

func (r *BaseParts) GetByPartNumber(_ context.Context, pn string) (*entity.BasePart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[pn], nil
}

func (r *BaseParts) ListByPartNumbers(_ context.Context, pns []string) ([]*entity.BasePart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.BasePart, 0, len(pns))
	for _, pn := range pns {
		if r.FailChunkWith != "" && pn == r.FailChunkWith {
			return nil, ErrInjected
		}
		if p, ok := r.rows[pn]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *BaseParts) ListAll(_ context.Context) ([]*entity.BasePart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailList {
		return nil, ErrInjected
	}
	keys := append([]string(nil), r.order...)
	sort.Strings(keys)
	out := make([]*entity.BasePart, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.rows[k])
	}
	return out, nil
}

// ─── Daily ────────────────────────────────────────────────────────────────────

// DailyParts repositorio en memoria del maestro diario.
type DailyParts struct {
	mu   sync.Mutex
	rows []*entity.DailyPart

	FailReplace bool
}

var _ repository.DailyPartRepository = (*DailyParts)(nil)

// NewDailyParts crea el repositorio con filas iniciales.
func NewDailyParts(parts ...*entity.DailyPart) *DailyParts {
	return &DailyParts{rows: parts}
}

func (r *DailyParts) ReplaceAll(_ context.Context, parts []*entity.DailyPart) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReplace {
		return 0, ErrInjected
	}
	r.rows = append([]*entity.DailyPart(nil), parts...)
	return len(parts), nil
}

func (r *DailyParts) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = nil
	return n, nil
}

func (r *DailyParts) GetLatestByPartNumber(_ context.Context, pn string) (*entity.DailyPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.DailyPart
	for _, d := range r.rows {
		if d.PartNumber == pn && (latest == nil || d.UploadDate.After(latest.UploadDate)) {
			latest = d
		}
	}
	return latest, nil
}

func (r *DailyParts) ListByPartNumbers(_ context.Context, pns []string) ([]*entity.DailyPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]struct{}, len(pns))
	for _, pn := range pns {
		set[pn] = struct{}{}
	}
	out := make([]*entity.DailyPart, 0)
	for _, d := range r.rows {
		if _, ok := set[d.PartNumber]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *DailyParts) ListAll(_ context.Context) ([]*entity.DailyPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.DailyPart(nil), r.rows...), nil
}

// ─── Average ──────────────────────────────────────────────────────────────────

// AverageCounts repositorio en memoria de promedios.
type AverageCounts struct {
	mu   sync.Mutex
	rows map[string]*entity.AverageCount

	// FailBatchWith rechaza el lote completo que contenga esa llave.
	FailBatchWith string
}

var _ repository.AverageCountRepository = (*AverageCounts)(nil)

// NewAverageCounts crea el repositorio con filas iniciales.
func NewAverageCounts(items ...*entity.AverageCount) *AverageCounts {
	r := &AverageCounts{rows: map[string]*entity.AverageCount{}}
	for _, a := range items {
		r.rows[a.PartNumber] = a
	}
	return r
}

func (r *AverageCounts) UpsertBatch(_ context.Context, items []*entity.AverageCount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range items {
		if r.FailBatchWith != "" && a.PartNumber == r.FailBatchWith {
			return ErrInjected
		}
	}
	for _, a := range items {
		r.rows[a.PartNumber] = a
	}
	return nil
}

func (r *AverageCounts) GetByPartNumber(_ context.Context, pn string) (*entity.AverageCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[pn], nil
}

func (r *AverageCounts) ListByPartNumbers(_ context.Context, pns []string) ([]*entity.AverageCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.AverageCount, 0, len(pns))
	for _, pn := range pns {
		if a, ok := r.rows[pn]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Len cantidad de promedios guardados.
func (r *AverageCounts) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
