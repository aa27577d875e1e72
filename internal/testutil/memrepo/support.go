package memrepo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
)

// Invalidator cuenta las invalidaciones recibidas.
type Invalidator struct {
	n atomic.Int32
}

var _ ports.AggregateInvalidator = (*Invalidator)(nil)

func (i *Invalidator) Invalidate(context.Context) { i.n.Add(1) }

// Calls cantidad de invalidaciones.
func (i *Invalidator) Calls() int { return int(i.n.Load()) }

// Preferences almacén de preferencias en memoria.
type Preferences struct {
	mu   sync.Mutex
	data map[string]dto.PreferencesDTO
}

var _ ports.PreferenceStore = (*Preferences)(nil)

// NewPreferences crea el almacén vacío.
func NewPreferences() *Preferences {
	return &Preferences{data: map[string]dto.PreferencesDTO{}}
}

func (p *Preferences) Load(_ context.Context, userID string) (dto.PreferencesDTO, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data[userID], nil
}

func (p *Preferences) Save(_ context.Context, userID string, prefs dto.PreferencesDTO) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[userID] = prefs
	return nil
}
