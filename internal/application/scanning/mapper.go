package scanning

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

func toScanResponse(s *entity.Scan, avg decimal.Decimal) dto.ScanResponse {
	return dto.ScanResponse{
		ID:             s.ID,
		PartNumber:     s.PartNumber,
		ScanCode:       s.ScanCode,
		Description:    s.Description,
		SystemStock:    s.SystemStock,
		PhysicalQty:    s.PhysicalQty,
		Difference:     s.Difference,
		ActualBin:      s.ActualBin,
		NewBinLocation: s.NewBinLocation,
		RemarkType:     s.RemarkType,
		RemarkDetail:   s.RemarkDetail,
		DamageQty:      s.DamageQty,
		CartonNo:       s.CartonNo,
		ScannedBy:      s.ScannedBy,
		LocationID:     s.LocationID,
		LocationName:   s.LocationName,
		AverageCount:   avg,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ScanResponse salida de un conteo con su conteo promedio (ej. el registro existente de un duplicado).
func ScanResponse(s *entity.Scan, avg decimal.Decimal) dto.ScanResponse {
	return toScanResponse(s, avg)
}
