// Package reconciliation contiene la lógica pura del conteo físico: resolución de maestros,
// valorización de diferencias y construcción de la hoja final. No accede a almacenamiento.
package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

const (
	// NoBin bin resuelto cuando ningún maestro trae ubicación.
	NoBin = "NO BIN"
	// Placeholder valor visible cuando no hay dato ni en maestros ni en el conteo.
	Placeholder = "---"
)

// Source origen de un valor resuelto.
type Source string

const (
	SourceNone    Source = ""
	SourceBase    Source = "base"
	SourceDaily   Source = "daily"
	SourceAverage Source = "average"
)

// MasterEntry vista resuelta de una parte. Guarda los aportes de cada fuente por separado;
// los métodos aplican la tabla de precedencia:
//
//	system_stock   daily.latest_stock  > base.base_stock  > 0
//	bin            daily.latest_bin    > base.default_bin > "NO BIN"
//	description    base                > daily            > ""
//	category       base                > daily            > ""
//	purchase_price base                                   > 0
//	average_count  average_counts                         > 0
type MasterEntry struct {
	PartNumber string

	HasBase       bool
	Description   string
	Category      string
	DefaultBin    string
	PurchasePrice decimal.Decimal
	BaseStock     decimal.Decimal

	HasDaily    bool
	DailyBin    string
	DailyStock  decimal.Decimal
	DailyUpload time.Time

	HasAverage   bool
	AverageCount decimal.Decimal
}

// InMasters indica si la parte existe en el maestro base o en el diario.
func (e *MasterEntry) InMasters() bool {
	return e.HasBase || e.HasDaily
}

// SystemStock stock de sistema vigente. Una fila diaria presente gana aunque su stock sea 0.
func (e *MasterEntry) SystemStock() decimal.Decimal {
	switch {
	case e.HasDaily:
		return e.DailyStock
	case e.HasBase:
		return e.BaseStock
	default:
		return decimal.Zero
	}
}

// StockSource fuente de SystemStock.
func (e *MasterEntry) StockSource() Source {
	switch {
	case e.HasDaily:
		return SourceDaily
	case e.HasBase:
		return SourceBase
	default:
		return SourceNone
	}
}

// Bin ubicación vigente. Las entradas creadas solo desde promedios devuelven Placeholder.
func (e *MasterEntry) Bin() string {
	if b := strings.TrimSpace(e.DailyBin); b != "" {
		return b
	}
	if b := strings.TrimSpace(e.DefaultBin); b != "" {
		return b
	}
	if !e.InMasters() {
		return Placeholder
	}
	return NoBin
}

// StockValue stock vigente * precio base.
func (e *MasterEntry) StockValue() decimal.Decimal {
	return e.SystemStock().Mul(e.PurchasePrice)
}

// MasterIndex mapa de entradas resueltas por número de parte normalizado.
type MasterIndex map[string]*MasterEntry

// Lookup normaliza pn y busca su entrada.
func (m MasterIndex) Lookup(pn string) (*MasterEntry, bool) {
	e, ok := m[entity.NormalizePartNumber(pn)]
	return e, ok
}

// MergeMasters construye el índice por capas: base, luego diario (crea o completa campos
// vacíos, nunca pisa un campo base poblado), luego promedios (asigna o crea una entrada mínima).
// Entre filas diarias duplicadas gana la de UploadDate más reciente; con la misma fecha, la primera.
func MergeMasters(base []*entity.BasePart, daily []*entity.DailyPart, averages []*entity.AverageCount) MasterIndex {
	idx := make(MasterIndex, len(base))

	for _, b := range base {
		if b == nil {
			continue
		}
		key := entity.NormalizePartNumber(b.PartNumber)
		if key == "" {
			continue
		}
		idx[key] = &MasterEntry{
			PartNumber:    key,
			HasBase:       true,
			Description:   b.Description,
			Category:      b.Category,
			DefaultBin:    b.DefaultBin,
			PurchasePrice: b.PurchasePrice,
			BaseStock:     b.BaseStock,
		}
	}

	for _, d := range daily {
		if d == nil {
			continue
		}
		key := entity.NormalizePartNumber(d.PartNumber)
		if key == "" {
			continue
		}
		e, ok := idx[key]
		if !ok {
			e = &MasterEntry{PartNumber: key}
			idx[key] = e
		}
		if e.HasDaily && !d.UploadDate.After(e.DailyUpload) {
			continue
		}
		e.HasDaily = true
		e.DailyBin = d.LatestBin
		e.DailyStock = d.LatestStock
		e.DailyUpload = d.UploadDate
		if strings.TrimSpace(e.Description) == "" {
			e.Description = d.Description
		}
		if strings.TrimSpace(e.Category) == "" {
			e.Category = d.Category
		}
	}

	for _, a := range averages {
		if a == nil {
			continue
		}
		key := entity.NormalizePartNumber(a.PartNumber)
		if key == "" {
			continue
		}
		e, ok := idx[key]
		if !ok {
			e = &MasterEntry{PartNumber: key}
			idx[key] = e
		}
		e.HasAverage = true
		e.AverageCount = a.AverageCount
	}

	return idx
}
