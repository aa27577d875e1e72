package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
)

// PreferenceUseCase recuerda la última ubicación elegida por cada operador.
type PreferenceUseCase struct {
	store           ports.PreferenceStore
	locations       repository.LocationRepository
	defaultLocation string
}

// NewPreferenceUseCase construye el caso de uso.
func NewPreferenceUseCase(store ports.PreferenceStore, locations repository.LocationRepository) *PreferenceUseCase {
	return &PreferenceUseCase{store: store, locations: locations}
}

// WithDefaultLocation ubicación sugerida a operadores sin preferencia guardada.
func (uc *PreferenceUseCase) WithDefaultLocation(id string) *PreferenceUseCase {
	uc.defaultLocation = strings.TrimSpace(id)
	return uc
}

// Get devuelve las preferencias. Una ubicación recordada que ya no existe o está inactiva se omite.
func (uc *PreferenceUseCase) Get(ctx context.Context, userID string) (dto.PreferencesDTO, error) {
	prefs, err := uc.store.Load(ctx, userID)
	if err != nil {
		return dto.PreferencesDTO{}, err
	}
	if prefs.LastLocationID == "" {
		prefs.LastLocationID = uc.defaultLocation
	}
	if !entity.ValidID(prefs.LastLocationID) {
		prefs.LastLocationID = ""
		return prefs, nil
	}
	loc, err := uc.locations.GetByID(ctx, prefs.LastLocationID)
	if err != nil {
		return dto.PreferencesDTO{}, err
	}
	if loc == nil || !loc.IsActive {
		prefs.LastLocationID = ""
	}
	return prefs, nil
}

// Set guarda la última ubicación; debe existir y estar activa.
func (uc *PreferenceUseCase) Set(ctx context.Context, userID string, in dto.PreferencesDTO) (dto.PreferencesDTO, error) {
	in.LastLocationID = strings.TrimSpace(in.LastLocationID)
	if in.LastLocationID != "" {
		if !entity.ValidID(in.LastLocationID) {
			return dto.PreferencesDTO{}, domain.ErrNotFound
		}
		loc, err := uc.locations.GetByID(ctx, in.LastLocationID)
		if err != nil {
			return dto.PreferencesDTO{}, err
		}
		if loc == nil {
			return dto.PreferencesDTO{}, domain.ErrNotFound
		}
		if !loc.IsActive {
			return dto.PreferencesDTO{}, domain.ErrInactiveLocation
		}
	}
	if err := uc.store.Save(ctx, userID, in); err != nil {
		return dto.PreferencesDTO{}, err
	}
	return in, nil
}
