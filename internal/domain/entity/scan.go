package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de observación de un conteo.
const (
	RemarkNone        = ""
	RemarkDamage      = "Damage"
	RemarkInterchange = "Interchange"
	RemarkManual      = "Manual"
)

// ValidRemarkType indica si el tipo de observación pertenece al catálogo cerrado.
func ValidRemarkType(t string) bool {
	switch t {
	case RemarkNone, RemarkDamage, RemarkInterchange, RemarkManual:
		return true
	}
	return false
}

// Scan es una observación de conteo físico. Existe como máximo un Scan por part_number
// (restricción UNIQUE en la tabla scans).
type Scan struct {
	ID             string
	PartNumber     string
	ScanCode       string
	Description    string
	SystemStock    decimal.Decimal // snapshot al momento del conteo
	PhysicalQty    decimal.Decimal
	Difference     decimal.Decimal // PhysicalQty - SystemStock
	ActualBin      string          // bin del sistema al momento del conteo
	NewBinLocation string          // reubicación indicada por el operador
	RemarkType     string
	RemarkDetail   string // convencionalmente "NN"
	DamageQty      decimal.Decimal
	CartonNo       string
	ScannedBy      string
	LocationID     string
	LocationName   string // solo lectura (join con locations)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recalculate actualiza Difference a partir de las cantidades actuales.
func (s *Scan) Recalculate() {
	s.Difference = s.PhysicalQty.Sub(s.SystemStock)
}
