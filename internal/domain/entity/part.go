package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizePartNumber devuelve la llave de cruce de un número de parte (trim + mayúsculas).
// Todas las uniones entre fuentes (base, diario, promedios, conteos) usan esta forma.
func NormalizePartNumber(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// BasePart representa un registro del maestro base (catálogo autoritativo del conteo).
// El conjunto se carga una sola vez; mientras tenga filas está bloqueado.
type BasePart struct {
	ID            string
	PartNumber    string
	Description   string
	Category      string
	DefaultBin    string
	PurchasePrice decimal.Decimal // DDL: precio usado para valorizar
	BaseStock     decimal.Decimal
	CreatedAt     time.Time
}

// StockValue devuelve base_stock * purchase_price.
func (p BasePart) StockValue() decimal.Decimal {
	return p.BaseStock.Mul(p.PurchasePrice)
}

// DailyPart representa una fila del maestro diario (último stock y ubicación conocidos).
// La tabla completa se reemplaza en cada carga.
type DailyPart struct {
	ID          string
	PartNumber  string
	Description string
	Category    string
	LatestBin   string
	LatestStock decimal.Decimal
	UploadDate  time.Time
}

// AverageCount referencia de conteo promedio por parte (upsert por part_number).
type AverageCount struct {
	PartNumber   string
	AverageCount decimal.Decimal
	UpdatedAt    time.Time
}
