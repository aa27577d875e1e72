package reconciliation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// Row fila conciliada: conteo + vista resuelta + valores calculados.
type Row struct {
	Scan         *entity.Scan
	Description  string
	Category     string
	Bin          string
	AverageCount decimal.Decimal
	Price        decimal.Decimal // DDL
	Valuation    Valuation
	StockValue   decimal.Decimal // system_stock (snapshot) * precio
	Warehouse    string
	InMasters    bool
}

// BuildRows cruza cada conteo con su entrada resuelta. Sin entrada (o entrada solo de promedios)
// la descripción y el bin salen del snapshot del conteo y, en último caso, de Placeholder.
func BuildRows(scans []*entity.Scan, idx MasterIndex) []Row {
	rows := make([]Row, 0, len(scans))
	for _, s := range scans {
		if s == nil {
			continue
		}
		r := Row{Scan: s, Warehouse: firstNonBlank(s.LocationName, Placeholder)}

		e, ok := idx.Lookup(s.PartNumber)
		if ok {
			r.Price = e.PurchasePrice
			r.AverageCount = e.AverageCount
			r.Category = e.Category
			r.InMasters = e.InMasters()
		}
		if ok && e.InMasters() {
			r.Description = firstNonBlank(e.Description, s.Description, Placeholder)
			r.Bin = e.Bin()
		} else {
			r.Description = firstNonBlank(s.Description, Placeholder)
			r.Bin = firstNonBlank(s.ActualBin, Placeholder)
		}

		r.Valuation = Classify(s.PhysicalQty, s.SystemStock, r.Price)
		r.StockValue = s.SystemStock.Mul(r.Price)
		rows = append(rows, r)
	}
	return rows
}

// SortByBin ordena ascendentemente por bin normalizado (trim, sin distinguir mayúsculas).
// Es estable: filas con el mismo bin conservan el orden de entrada.
func SortByBin(rows []Row) {
	keys := make(map[*entity.Scan]string, len(rows))
	for _, r := range rows {
		keys[r.Scan] = binKey(r.Bin)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return keys[rows[i].Scan] < keys[rows[j].Scan]
	})
}

func binKey(bin string) string {
	return strings.ToUpper(strings.TrimSpace(bin))
}

// FilterRows conserva las filas cuyo número de parte, descripción u operador contienen q
// (sin distinguir mayúsculas). q vacío devuelve rows sin cambios.
func FilterRows(rows []Row, q string) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if containsFold(r.Scan.PartNumber, q) || containsFold(r.Description, q) || containsFold(r.Scan.ScannedBy, q) {
			out = append(out, r)
		}
	}
	return out
}

// SheetStats resumen de la hoja final (sobre las filas visibles).
type SheetStats struct {
	UniqueParts int
	ShortValue  decimal.Decimal
	ExcessValue decimal.Decimal
	StockValue  decimal.Decimal
}

// Summarize calcula SheetStats.
func Summarize(rows []Row) SheetStats {
	var st SheetStats
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[entity.NormalizePartNumber(r.Scan.PartNumber)] = struct{}{}
		st.ShortValue = st.ShortValue.Add(r.Valuation.ShortValue)
		st.ExcessValue = st.ExcessValue.Add(r.Valuation.ExcessValue)
		st.StockValue = st.StockValue.Add(r.StockValue)
	}
	st.UniqueParts = len(seen)
	return st
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func containsFold(s, lowerQ string) bool {
	return strings.Contains(strings.ToLower(s), lowerQ)
}
