package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LookupRequest código escaneado o tecleado por el operador.
type LookupRequest struct {
	Code string `json:"code" validate:"required"`
}

// ScanDraftDTO borrador prellenado desde los maestros.
type ScanDraftDTO struct {
	PartNumber   string          `json:"part_number"`
	ScanCode     string          `json:"scan_code"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	SystemStock  decimal.Decimal `json:"system_stock"`
	StockSource  string          `json:"stock_source"` // daily | base | ""
	ActualBin    string          `json:"actual_bin"`
	AverageCount decimal.Decimal `json:"average_count"`
	Price        decimal.Decimal `json:"ddl"`
}

// LookupResponse resultado de una búsqueda: duplicado (editar Existing) o borrador nuevo.
type LookupResponse struct {
	Duplicate        bool          `json:"duplicate"`
	MissingInMasters bool          `json:"missing_in_masters"`
	Existing         *ScanResponse `json:"existing,omitempty"`
	Draft            *ScanDraftDTO `json:"draft,omitempty"`
}

// SaveScanRequest alta (sin ID) o edición (con ID) de un conteo.
type SaveScanRequest struct {
	ID             string           `json:"id"`
	PartNumber     string           `json:"part_number"`
	ScanCode       string           `json:"scan_code"`
	Description    string           `json:"description"`
	PhysicalQty    *decimal.Decimal `json:"physical_qty"`
	NewBinLocation string           `json:"new_bin_location"`
	RemarkType     string           `json:"remark_type"`
	RemarkDetail   string           `json:"remark_detail"`
	DamageQty      decimal.Decimal  `json:"damage_qty"`
	CartonNo       string           `json:"nn_carton_no"`
	LocationID     string           `json:"location_id"`
}

// CorrectScanRequest corrección de auditoría desde la hoja final o los reportes.
// Solo se aplican los campos presentes.
type CorrectScanRequest struct {
	PhysicalQty    *decimal.Decimal `json:"physical_qty"`
	RemarkType     *string          `json:"remark_type"`
	RemarkDetail   *string          `json:"remark_detail"`
	DamageQty      *decimal.Decimal `json:"damage_qty"`
	CartonNo       *string          `json:"nn_carton_no"`
	NewBinLocation *string          `json:"new_bin_location"`
}

// ScanResponse salida de un conteo.
type ScanResponse struct {
	ID             string          `json:"id"`
	PartNumber     string          `json:"part_number"`
	ScanCode       string          `json:"scan_code"`
	Description    string          `json:"description"`
	SystemStock    decimal.Decimal `json:"system_stock"`
	PhysicalQty    decimal.Decimal `json:"physical_qty"`
	Difference     decimal.Decimal `json:"difference"`
	ActualBin      string          `json:"actual_bin"`
	NewBinLocation string          `json:"new_bin_location"`
	RemarkType     string          `json:"remark_type"`
	RemarkDetail   string          `json:"remark_detail"`
	DamageQty      decimal.Decimal `json:"damage_qty"`
	CartonNo       string          `json:"nn_carton_no"`
	ScannedBy      string          `json:"scanned_by"`
	LocationID     string          `json:"location_id"`
	LocationName   string          `json:"location_name"`
	AverageCount   decimal.Decimal `json:"average_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ScanListResponse historial de conteos (más recientes primero).
type ScanListResponse struct {
	Items        []ScanResponse `json:"items"`
	Total        int            `json:"total"`
	Partial      bool           `json:"partial"`
	FailedChunks int            `json:"failed_chunks,omitempty"`
}
