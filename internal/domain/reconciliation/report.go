package reconciliation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// Tab pestaña de reporte.
type Tab string

const (
	TabShortage   Tab = "shortage"
	TabExcess     Tab = "excess"
	TabNotScanned Tab = "not-scanned"
)

// ParseTab acepta también los alias "short", "non-counted" y "not_scanned".
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shortage", "short":
		return TabShortage, nil
	case "excess":
		return TabExcess, nil
	case "not-scanned", "not_scanned", "non-counted":
		return TabNotScanned, nil
	}
	return "", fmt.Errorf("pestaña de reporte desconocida: %q", s)
}

// ExportName prefijo del archivo exportado (SHORTAGE, EXCESS, NOT_SCANNED).
func (t Tab) ExportName() string {
	return strings.ToUpper(strings.ReplaceAll(string(t), "-", "_"))
}

// ShortageRows filas con diferencia negativa.
func ShortageRows(rows []Row) []Row {
	return selectRows(rows, func(r Row) bool { return r.Valuation.IsShort() })
}

// ExcessRows filas con diferencia positiva.
func ExcessRows(rows []Row) []Row {
	return selectRows(rows, func(r Row) bool { return r.Valuation.IsExcess() })
}

func selectRows(rows []Row, keep func(Row) bool) []Row {
	out := make([]Row, 0)
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// NotScannedRow parte del maestro base con stock vigente > 0 y sin conteo.
type NotScannedRow struct {
	PartNumber   string
	Description  string
	Category     string
	Bin          string
	SystemStock  decimal.Decimal
	AverageCount decimal.Decimal
	Price        decimal.Decimal
	StockValue   decimal.Decimal
}

// NotScannedResult resultado acotado. Total cuenta todas las filas candidatas;
// Truncated indica que Rows se cortó en el límite.
type NotScannedResult struct {
	Rows      []NotScannedRow
	Total     int
	Truncated bool
}

// NotScanned recorre el maestro base completo en su orden y devuelve las partes sin conteo cuyo
// stock resuelto (idx) es positivo. limit <= 0 significa sin tope.
func NotScanned(base []*entity.BasePart, idx MasterIndex, scanned map[string]struct{}, limit int) NotScannedResult {
	res := NotScannedResult{Rows: make([]NotScannedRow, 0)}
	for _, b := range base {
		if b == nil {
			continue
		}
		key := entity.NormalizePartNumber(b.PartNumber)
		if _, ok := scanned[key]; ok {
			continue
		}
		e, ok := idx[key]
		if !ok {
			e = &MasterEntry{PartNumber: key, HasBase: true, Description: b.Description, Category: b.Category,
				DefaultBin: b.DefaultBin, PurchasePrice: b.PurchasePrice, BaseStock: b.BaseStock}
		}
		stock := e.SystemStock()
		if !stock.IsPositive() {
			continue
		}
		res.Total++
		if limit > 0 && len(res.Rows) >= limit {
			res.Truncated = true
			continue
		}
		res.Rows = append(res.Rows, NotScannedRow{
			PartNumber:   key,
			Description:  firstNonBlank(e.Description, Placeholder),
			Category:     firstNonBlank(e.Category, Placeholder),
			Bin:          e.Bin(),
			SystemStock:  stock,
			AverageCount: e.AverageCount,
			Price:        e.PurchasePrice,
			StockValue:   stock.Mul(e.PurchasePrice),
		})
	}
	return res
}

// FilterNotScanned filtra por número de parte o descripción.
func FilterNotScanned(rows []NotScannedRow, q string) []NotScannedRow {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]NotScannedRow, 0, len(rows))
	for _, r := range rows {
		if containsFold(r.PartNumber, q) || containsFold(r.Description, q) {
			out = append(out, r)
		}
	}
	return out
}

// ScannedSet llaves normalizadas de los conteos existentes.
func ScannedSet(scans []*entity.Scan) map[string]struct{} {
	set := make(map[string]struct{}, len(scans))
	for _, s := range scans {
		if s != nil {
			set[entity.NormalizePartNumber(s.PartNumber)] = struct{}{}
		}
	}
	return set
}

// FilterReportRows filtro de búsqueda de las pestañas de faltante/sobrante (parte o descripción).
func FilterReportRows(rows []Row, q string) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	return selectRows(rows, func(r Row) bool {
		return containsFold(r.Scan.PartNumber, q) || containsFold(r.Description, q)
	})
}
