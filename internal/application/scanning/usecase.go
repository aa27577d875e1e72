// Package scanning implementa el motor de registros de conteo: búsqueda por código, alta/edición,
// correcciones de auditoría y borrados. Cada mutación exitosa invalida los agregados.
package scanning

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

// Acciones registradas en métricas.
const (
	actionInsert    = "insert"
	actionUpdate    = "update"
	actionCorrect   = "correct"
	actionDelete    = "delete"
	actionDeleteAll = "delete_all"
	actionDuplicate = "duplicate"
)

// MasterResolver resolución de maestros que necesita el motor.
type MasterResolver interface {
	ResolveOne(ctx context.Context, partNumber string) (*reconciliation.MasterEntry, error)
	ResolveMany(ctx context.Context, partNumbers []string) (reconciliation.MasterIndex, masters.Enrichment)
}

// ScanUseCase motor de registros de conteo.
type ScanUseCase struct {
	scans       repository.ScanRepository
	locations   repository.LocationRepository
	resolver    MasterResolver
	invalidator ports.AggregateInvalidator
	log         *logger.Logger
	metrics     ports.Metrics
	now         func() time.Time
}

// NewScanUseCase construye el motor.
func NewScanUseCase(
	scans repository.ScanRepository,
	locations repository.LocationRepository,
	resolver MasterResolver,
	invalidator ports.AggregateInvalidator,
	log *logger.Logger,
	metrics ports.Metrics,
) *ScanUseCase {
	if invalidator == nil {
		invalidator = ports.NopInvalidator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ScanUseCase{
		scans: scans, locations: locations, resolver: resolver, invalidator: invalidator,
		log: log.Component("scanning"), metrics: metrics, now: time.Now,
	}
}

// DetectPartNumber extrae el número de parte de un código escaneado: primer token, normalizado.
func DetectPartNumber(code string) string {
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return ""
	}
	return entity.NormalizePartNumber(fields[0])
}

// Lookup busca un conteo existente para el código; si existe lo devuelve como duplicado (editar).
// Si no, arma un borrador desde los maestros. Una parte ausente en base y diario produce un
// borrador marcado MissingInMasters con stock 0, que igualmente se puede guardar.
func (uc *ScanUseCase) Lookup(ctx context.Context, code string) (*dto.LookupResponse, error) {
	pn := DetectPartNumber(code)
	if pn == "" {
		return nil, domain.NewValidationError("code", "código vacío")
	}

	existing, err := uc.scans.GetByPartNumber(ctx, pn)
	if err != nil {
		return nil, domain.NewPersistenceError("conteo: buscar existente", err)
	}
	if existing != nil {
		uc.metrics.ScanEvent(actionDuplicate)
		resp := toScanResponse(existing, uc.averageFor(ctx, pn))
		return &dto.LookupResponse{Duplicate: true, Existing: &resp}, nil
	}

	entry, err := uc.resolver.ResolveOne(ctx, pn)
	if err != nil {
		return nil, err
	}
	draft := &dto.ScanDraftDTO{PartNumber: pn, ScanCode: strings.TrimSpace(code)}
	missing := entry == nil || !entry.InMasters()
	if entry != nil {
		draft.Description = entry.Description
		draft.Category = entry.Category
		draft.SystemStock = entry.SystemStock()
		draft.StockSource = string(entry.StockSource())
		draft.ActualBin = entry.Bin()
		draft.AverageCount = entry.AverageCount
		draft.Price = entry.PurchasePrice
	}
	if missing {
		draft.ActualBin = reconciliation.NoBin
	}
	return &dto.LookupResponse{MissingInMasters: missing, Draft: draft}, nil
}

// Save valida y persiste un conteo. Con ID actualiza el registro existente (el snapshot de stock no
// cambia); sin ID inserta tomando el snapshot vigente de los maestros. La unicidad por parte la
// garantiza la tabla: un choque devuelve *domain.DuplicateScanError con el registro a editar.
func (uc *ScanUseCase) Save(ctx context.Context, operator string, in dto.SaveScanRequest) (*dto.ScanResponse, error) {
	pn := entity.NormalizePartNumber(in.PartNumber)
	if pn == "" {
		return nil, domain.NewValidationError("part_number", "requerido")
	}
	if strings.TrimSpace(in.LocationID) == "" {
		return nil, domain.NewValidationError("location_id", "seleccione una ubicación")
	}
	if !entity.ValidID(in.LocationID) {
		return nil, domain.NewValidationError("location_id", "ubicación inexistente")
	}
	if in.ID != "" && !entity.ValidID(in.ID) {
		return nil, domain.ErrNotFound
	}
	if in.PhysicalQty == nil {
		return nil, domain.NewValidationError("physical_qty", "requerida")
	}
	if in.PhysicalQty.IsNegative() {
		return nil, domain.NewValidationError("physical_qty", "no puede ser negativa")
	}
	if !entity.ValidRemarkType(in.RemarkType) {
		return nil, domain.NewValidationError("remark_type", "tipo de observación inválido")
	}
	if in.DamageQty.IsNegative() {
		return nil, domain.NewValidationError("damage_qty", "no puede ser negativa")
	}
	loc, err := uc.activeLocation(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	if in.ID != "" {
		return uc.update(ctx, operator, loc, pn, in)
	}
	return uc.insert(ctx, operator, loc, pn, in)
}

func (uc *ScanUseCase) insert(ctx context.Context, operator string, loc *entity.Location, pn string, in dto.SaveScanRequest) (*dto.ScanResponse, error) {
	// Verificación previa solo para dar una respuesta clara; la restricción UNIQUE decide.
	existing, err := uc.scans.GetByPartNumber(ctx, pn)
	if err != nil {
		return nil, domain.NewPersistenceError("conteo: buscar existente", err)
	}
	if existing != nil {
		uc.metrics.ScanEvent(actionDuplicate)
		return nil, &domain.DuplicateScanError{Existing: existing, AverageCount: uc.averageFor(ctx, pn)}
	}

	entry, err := uc.resolver.ResolveOne(ctx, pn)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	scan := &entity.Scan{
		ID:             uuid.New().String(),
		PartNumber:     pn,
		ScanCode:       strings.TrimSpace(in.ScanCode),
		Description:    strings.TrimSpace(in.Description),
		PhysicalQty:    *in.PhysicalQty,
		ActualBin:      reconciliation.NoBin,
		NewBinLocation: strings.TrimSpace(in.NewBinLocation),
		RemarkType:     in.RemarkType,
		RemarkDetail:   strings.TrimSpace(in.RemarkDetail),
		DamageQty:      in.DamageQty,
		CartonNo:       strings.TrimSpace(in.CartonNo),
		ScannedBy:      operator,
		LocationID:     loc.ID,
		LocationName:   loc.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if scan.ScanCode == "" {
		scan.ScanCode = pn
	}
	avg := decimal.Zero
	if entry != nil {
		scan.SystemStock = entry.SystemStock()
		if entry.InMasters() {
			scan.ActualBin = entry.Bin()
		}
		if scan.Description == "" {
			scan.Description = entry.Description
		}
		avg = entry.AverageCount
	}
	scan.Recalculate()

	if err := uc.scans.Create(ctx, scan); err != nil {
		if errors.Is(err, domain.ErrDuplicateScan) {
			uc.metrics.ScanEvent(actionDuplicate)
			winner, gerr := uc.scans.GetByPartNumber(ctx, pn)
			if gerr != nil {
				return nil, domain.NewPersistenceError("conteo: leer duplicado", gerr)
			}
			return nil, &domain.DuplicateScanError{Existing: winner, AverageCount: avg}
		}
		return nil, domain.NewPersistenceError("conteo: insertar", err)
	}

	uc.metrics.ScanEvent(actionInsert)
	uc.log.Info().Str("part_number", pn).Str("operator", operator).Str("difference", scan.Difference.String()).Msg("conteo registrado")
	uc.invalidator.Invalidate(ctx)
	resp := toScanResponse(scan, avg)
	return &resp, nil
}

func (uc *ScanUseCase) update(ctx context.Context, operator string, loc *entity.Location, pn string, in dto.SaveScanRequest) (*dto.ScanResponse, error) {
	scan, err := uc.scans.GetByID(ctx, in.ID)
	if err != nil {
		return nil, domain.NewPersistenceError("conteo: leer", err)
	}
	if scan == nil {
		return nil, domain.ErrNotFound
	}
	if scan.PartNumber != pn {
		return nil, domain.NewValidationError("part_number", "no coincide con el conteo a editar")
	}

	scan.PhysicalQty = *in.PhysicalQty
	scan.NewBinLocation = strings.TrimSpace(in.NewBinLocation)
	scan.RemarkType = in.RemarkType
	scan.RemarkDetail = strings.TrimSpace(in.RemarkDetail)
	scan.DamageQty = in.DamageQty
	scan.CartonNo = strings.TrimSpace(in.CartonNo)
	scan.LocationID = loc.ID
	scan.LocationName = loc.Name
	scan.ScannedBy = operator
	scan.UpdatedAt = uc.now()
	scan.Recalculate()

	if err := uc.scans.Update(ctx, scan); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("conteo: actualizar", err)
	}
	uc.metrics.ScanEvent(actionUpdate)
	uc.invalidator.Invalidate(ctx)
	resp := toScanResponse(scan, uc.averageFor(ctx, pn))
	return &resp, nil
}

// Correct aplica una corrección de auditoría y recalcula la diferencia contra el snapshot guardado.
func (uc *ScanUseCase) Correct(ctx context.Context, id string, in dto.CorrectScanRequest) (*dto.ScanResponse, error) {
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	scan, err := uc.scans.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("conteo: leer", err)
	}
	if scan == nil {
		return nil, domain.ErrNotFound
	}
	if in.PhysicalQty != nil {
		if in.PhysicalQty.IsNegative() {
			return nil, domain.NewValidationError("physical_qty", "no puede ser negativa")
		}
		scan.PhysicalQty = *in.PhysicalQty
	}
	if in.RemarkType != nil {
		if !entity.ValidRemarkType(*in.RemarkType) {
			return nil, domain.NewValidationError("remark_type", "tipo de observación inválido")
		}
		scan.RemarkType = *in.RemarkType
	}
	if in.RemarkDetail != nil {
		scan.RemarkDetail = strings.TrimSpace(*in.RemarkDetail)
	}
	if in.DamageQty != nil {
		if in.DamageQty.IsNegative() {
			return nil, domain.NewValidationError("damage_qty", "no puede ser negativa")
		}
		scan.DamageQty = *in.DamageQty
	}
	if in.CartonNo != nil {
		scan.CartonNo = strings.TrimSpace(*in.CartonNo)
	}
	if in.NewBinLocation != nil {
		scan.NewBinLocation = strings.TrimSpace(*in.NewBinLocation)
	}
	scan.UpdatedAt = uc.now()
	scan.Recalculate()

	if err := uc.scans.Update(ctx, scan); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("conteo: corregir", err)
	}
	uc.metrics.ScanEvent(actionCorrect)
	uc.invalidator.Invalidate(ctx)
	resp := toScanResponse(scan, uc.averageFor(ctx, scan.PartNumber))
	return &resp, nil
}

// Delete elimina un conteo; la parte vuelve a poder contarse.
func (uc *ScanUseCase) Delete(ctx context.Context, id string) error {
	if !entity.ValidID(id) {
		return domain.ErrNotFound
	}
	ok, err := uc.scans.Delete(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("conteo: borrar", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.metrics.ScanEvent(actionDelete)
	uc.invalidator.Invalidate(ctx)
	return nil
}

// DeleteAll elimina todos los conteos (inicio de un nuevo ciclo). Requiere confirm.
func (uc *ScanUseCase) DeleteAll(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, domain.ErrConfirmationRequired
	}
	n, err := uc.scans.DeleteAll(ctx)
	if err != nil {
		return 0, domain.NewPersistenceError("conteo: borrar todo", err)
	}
	uc.metrics.ScanEvent(actionDeleteAll)
	uc.log.Warn().Int64("deleted", n).Msg("todos los conteos eliminados")
	uc.invalidator.Invalidate(ctx)
	return n, nil
}

// List historial completo (más recientes primero) con el conteo promedio de cada parte.
func (uc *ScanUseCase) List(ctx context.Context) (*dto.ScanListResponse, error) {
	scans, err := uc.scans.ListAll(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("conteo: listar", err)
	}
	pns := make([]string, 0, len(scans))
	for _, s := range scans {
		pns = append(pns, s.PartNumber)
	}
	idx, enr := uc.resolver.ResolveMany(ctx, pns)

	items := make([]dto.ScanResponse, 0, len(scans))
	for _, s := range scans {
		avg := decimal.Zero
		if e, ok := idx.Lookup(s.PartNumber); ok {
			avg = e.AverageCount
		}
		items = append(items, toScanResponse(s, avg))
	}
	return &dto.ScanListResponse{Items: items, Total: len(items), Partial: enr.Partial(), FailedChunks: enr.FailedChunks}, nil
}

// averageFor conteo promedio de referencia; un fallo de lectura no impide responder.
func (uc *ScanUseCase) averageFor(ctx context.Context, pn string) decimal.Decimal {
	entry, err := uc.resolver.ResolveOne(ctx, pn)
	if err != nil {
		uc.log.Warn().Err(err).Str("part_number", pn).Msg("no se pudo leer el conteo promedio")
		return decimal.Zero
	}
	if entry == nil {
		return decimal.Zero
	}
	return entry.AverageCount
}

func (uc *ScanUseCase) activeLocation(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("ubicación: leer", err)
	}
	if loc == nil {
		return nil, domain.NewValidationError("location_id", "ubicación inexistente")
	}
	if !loc.IsActive {
		return nil, domain.ErrInactiveLocation
	}
	return loc, nil
}
