package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
)

// Scans repositorio en memoria de conteos con la restricción UNIQUE(part_number).
type Scans struct {
	mu   sync.Mutex
	rows map[string]*entity.Scan // por ID

	FailList bool
	// AfterList se ejecuta al terminar ListAll, fuera del lock.
	AfterList func()
}

var _ repository.ScanRepository = (*Scans)(nil)

// NewScans crea el repositorio con filas iniciales.
func NewScans(scans ...*entity.Scan) *Scans {
	r := &Scans{rows: map[string]*entity.Scan{}}
	for _, s := range scans {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		r.rows[s.ID] = s
	}
	return r
}

func (r *Scans) Create(_ context.Context, s *entity.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.PartNumber == s.PartNumber {
			return domain.ErrDuplicateScan
		}
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *Scans) Update(_ context.Context, s *entity.Scan) error {
	if err := checkID(s.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *Scans) GetByID(_ context.Context, id string) (*entity.Scan, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *Scans) GetByPartNumber(_ context.Context, pn string) (*entity.Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.PartNumber == pn {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Scans) ListAll(ctx context.Context) ([]*entity.Scan, error) {
	out, err := r.listAll()
	if err == nil && r.AfterList != nil {
		r.AfterList()
	}
	return out, err
}

func (r *Scans) listAll() ([]*entity.Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailList {
		return nil, ErrInjected
	}
	out := make([]*entity.Scan, 0, len(r.rows))
	for _, s := range r.rows {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Scans) Delete(_ context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *Scans) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = map[string]*entity.Scan{}
	return n, nil
}

// Len cantidad de conteos.
func (r *Scans) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
