package reconciliation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

// FinalSheetColumns orden fijo de columnas del reporte final de auditoría.
var FinalSheetColumns = []string{
	"SR NO", "PART NUM", "PART DESCRIPTION", "BIN LOCATION", "CURRENT STOCK", "PHY. QTY",
	"AVG COUNT", "DIFF. QTY", "DDL", "DIFF VALUE", "STOCK VALUE", "REMARK (Dmg/Intchg)",
	"REMARK 1 (NN)", "NN CARTON NO", "NEW LOC", "WAREHOUSE", "DATE", "USER",
}

// DateLayout fecha día-mes-año de las exportaciones.
const DateLayout = "02/01/2006"

// ExportRecord una fila de exportación, con los valores tipados en el orden de FinalSheetColumns.
type ExportRecord struct {
	SrNo         int
	PartNumber   string
	Description  string
	Bin          string
	CurrentStock decimal.Decimal
	PhysicalQty  decimal.Decimal
	AverageCount decimal.Decimal
	DiffQty      decimal.Decimal
	DDL          decimal.Decimal
	DiffValue    decimal.Decimal
	StockValue   decimal.Decimal
	Remark       string
	RemarkDetail string
	CartonNo     string
	NewLocation  string
	Warehouse    string
	Date         string
	User         string
}

// Values devuelve la fila como celdas (decimales como float64 para la hoja de cálculo).
func (r ExportRecord) Values() []any {
	return []any{
		r.SrNo, r.PartNumber, r.Description, r.Bin,
		r.CurrentStock.InexactFloat64(), r.PhysicalQty.InexactFloat64(), r.AverageCount.InexactFloat64(),
		r.DiffQty.InexactFloat64(), r.DDL.InexactFloat64(), r.DiffValue.InexactFloat64(), r.StockValue.InexactFloat64(),
		r.Remark, r.RemarkDetail, r.CartonNo, r.NewLocation, r.Warehouse, r.Date, r.User,
	}
}

// RemarkLabel tipo de observación más " (N Qty)" cuando hay cantidad dañada.
func RemarkLabel(s *entity.Scan) string {
	if s.RemarkType == entity.RemarkNone {
		return ""
	}
	if s.DamageQty.IsPositive() {
		return fmt.Sprintf("%s (%s Qty)", s.RemarkType, s.DamageQty.String())
	}
	return s.RemarkType
}

// FormatDate fecha de exportación en la zona loc (UTC si es nil).
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Placeholder
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ToExportRecords una fila de exportación por fila conciliada, en el mismo orden.
func ToExportRecords(rows []Row, loc *time.Location) []ExportRecord {
	out := make([]ExportRecord, 0, len(rows))
	for i, r := range rows {
		s := r.Scan
		out = append(out, ExportRecord{
			SrNo:         i + 1,
			PartNumber:   s.PartNumber,
			Description:  r.Description,
			Bin:          r.Bin,
			CurrentStock: s.SystemStock,
			PhysicalQty:  s.PhysicalQty,
			AverageCount: r.AverageCount,
			DiffQty:      r.Valuation.Difference,
			DDL:          r.Price,
			DiffValue:    r.Valuation.DiffValue,
			StockValue:   r.StockValue,
			Remark:       RemarkLabel(s),
			RemarkDetail: s.RemarkDetail,
			CartonNo:     s.CartonNo,
			NewLocation:  s.NewBinLocation,
			Warehouse:    r.Warehouse,
			Date:         FormatDate(s.CreatedAt, loc),
			User:         s.ScannedBy,
		})
	}
	return out
}

// Columnas de las exportaciones por pestaña.
var (
	VarianceTabColumns = []string{
		"SR NO", "PART NUM", "PART DESCRIPTION", "BIN LOCATION", "CURRENT STOCK", "PHY. QTY", "CAT",
		"AVG COUNT", "DIFF. QTY", "DDL", "DIFF VALUE", "REMARK", "NN REMARK", "CARTON NO", "W'HOUSE",
	}
	NotScannedTabColumns = []string{
		"SR NO", "PART NUM", "PART DESCRIPTION", "BIN LOCATION", "CURRENT STOCK", "AVG COUNT", "CAT",
		"DDL", "STOCK VALUE",
	}
)

// VarianceTabValues celdas de las pestañas de faltante/sobrante.
func VarianceTabValues(rows []Row) [][]any {
	out := make([][]any, 0, len(rows))
	for i, r := range rows {
		s := r.Scan
		out = append(out, []any{
			i + 1, s.PartNumber, r.Description, r.Bin, s.SystemStock.InexactFloat64(), s.PhysicalQty.InexactFloat64(),
			firstNonBlank(r.Category, Placeholder), r.AverageCount.InexactFloat64(), r.Valuation.Difference.InexactFloat64(),
			r.Price.InexactFloat64(), r.Valuation.DiffValue.InexactFloat64(), RemarkLabel(s), s.RemarkDetail, s.CartonNo,
			r.Warehouse,
		})
	}
	return out
}

// NotScannedTabValues celdas de la pestaña de no contados.
func NotScannedTabValues(rows []NotScannedRow) [][]any {
	out := make([][]any, 0, len(rows))
	for i, r := range rows {
		out = append(out, []any{
			i + 1, r.PartNumber, r.Description, r.Bin, r.SystemStock.InexactFloat64(), r.AverageCount.InexactFloat64(),
			r.Category, r.Price.InexactFloat64(), r.StockValue.InexactFloat64(),
		})
	}
	return out
}
