package reports

import (
	"sort"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
)

func toRowDTOs(rows []reconciliation.Row) []dto.ReconciledRowDTO {
	out := make([]dto.ReconciledRowDTO, 0, len(rows))
	for _, r := range rows {
		s := r.Scan
		out = append(out, dto.ReconciledRowDTO{
			ID:             s.ID,
			PartNumber:     s.PartNumber,
			Description:    r.Description,
			Category:       r.Category,
			Bin:            r.Bin,
			SystemStock:    s.SystemStock,
			PhysicalQty:    s.PhysicalQty,
			AverageCount:   r.AverageCount,
			Difference:     r.Valuation.Difference,
			DDL:            r.Price,
			DiffValue:      r.Valuation.DiffValue,
			StockValue:     r.StockValue,
			RemarkType:     s.RemarkType,
			RemarkDetail:   s.RemarkDetail,
			DamageQty:      s.DamageQty,
			CartonNo:       s.CartonNo,
			NewBinLocation: s.NewBinLocation,
			Warehouse:      r.Warehouse,
			ScannedBy:      s.ScannedBy,
			InMasters:      r.InMasters,
			CreatedAt:      s.CreatedAt,
		})
	}
	return out
}

func toNotScannedDTOs(rows []reconciliation.NotScannedRow) []dto.NotScannedRowDTO {
	out := make([]dto.NotScannedRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.NotScannedRowDTO{
			PartNumber:   r.PartNumber,
			Description:  r.Description,
			Category:     r.Category,
			Bin:          r.Bin,
			SystemStock:  r.SystemStock,
			AverageCount: r.AverageCount,
			DDL:          r.Price,
			StockValue:   r.StockValue,
		})
	}
	return out
}

// topByValue las n filas de mayor |diff_value|.
func topByValue(rows []reconciliation.Row, n int) []reconciliation.Row {
	sorted := append([]reconciliation.Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Valuation.DiffValue.Abs().GreaterThan(sorted[j].Valuation.DiffValue.Abs())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
