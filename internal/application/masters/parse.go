package masters

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// Columnas fijas de cada planilla de carga.
const (
	baseColPart     = "B"
	baseColDesc     = "D"
	baseColCategory = "E"
	baseColBin      = "F"
	baseColPrice    = "G"
	baseColStock    = "L"

	dailyColPart  = "A"
	dailyColBin   = "C"
	dailyColStock = "D"

	avgColPart  = "A"
	avgColCount = "B"
)

// cell devuelve la celda recortada.
func cell(row ports.SheetRow, col string) string {
	return strings.TrimSpace(row[col])
}

// partNumber normaliza la celda de número de parte.
func partNumber(row ports.SheetRow, col string) string {
	return entity.NormalizePartNumber(row[col])
}

// parseNumber interpreta una celda numérica de forma tolerante: vacía o inválida = 0.
// Acepta separadores de miles con coma y símbolo de moneda.
func parseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.NewReplacer(",", "", "₹", "", "$", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
