package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
)

// Locations repositorio en memoria de ubicaciones.
type Locations struct {
	mu   sync.Mutex
	rows map[string]*entity.Location
}

var _ repository.LocationRepository = (*Locations)(nil)

// NewLocations crea el repositorio con filas iniciales.
func NewLocations(locs ...*entity.Location) *Locations {
	r := &Locations{rows: map[string]*entity.Location{}}
	for _, l := range locs {
		r.rows[l.ID] = l
	}
	return r
}

func (r *Locations) Create(_ context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Name == l.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *Locations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *Locations) Update(_ context.Context, l *entity.Location) error {
	if err := checkID(l.ID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[l.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *Locations) List(_ context.Context, activeOnly bool) ([]*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Location, 0, len(r.rows))
	for _, l := range r.rows {
		if activeOnly && !l.IsActive {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
