package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciledRowDTO fila conciliada (conteo + maestro resuelto + valores).
type ReconciledRowDTO struct {
	ID             string          `json:"id"`
	PartNumber     string          `json:"part_number"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Bin            string          `json:"bin_location"`
	SystemStock    decimal.Decimal `json:"system_stock"`
	PhysicalQty    decimal.Decimal `json:"physical_qty"`
	AverageCount   decimal.Decimal `json:"average_count"`
	Difference     decimal.Decimal `json:"difference"`
	DDL            decimal.Decimal `json:"ddl"`
	DiffValue      decimal.Decimal `json:"diff_value"`
	StockValue     decimal.Decimal `json:"stock_value"`
	RemarkType     string          `json:"remark_type"`
	RemarkDetail   string          `json:"remark_detail"`
	DamageQty      decimal.Decimal `json:"damage_qty"`
	CartonNo       string          `json:"nn_carton_no"`
	NewBinLocation string          `json:"new_bin_location"`
	Warehouse      string          `json:"warehouse"`
	ScannedBy      string          `json:"scanned_by"`
	InMasters      bool            `json:"in_masters"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SheetStatsDTO resumen de la hoja final.
type SheetStatsDTO struct {
	UniqueParts int             `json:"unique_parts"`
	ShortValue  decimal.Decimal `json:"short_value"`
	ExcessValue decimal.Decimal `json:"excess_value"`
	StockValue  decimal.Decimal `json:"stock_value"`
}

// FinalSheetResponse hoja final ordenada por bin.
type FinalSheetResponse struct {
	Rows         []ReconciledRowDTO `json:"rows"`
	Stats        SheetStatsDTO      `json:"stats"`
	Partial      bool               `json:"partial"` // algún lote de enriquecimiento falló
	FailedChunks int                `json:"failed_chunks,omitempty"`
}

// NotScannedRowDTO parte con stock y sin conteo.
type NotScannedRowDTO struct {
	PartNumber   string          `json:"part_number"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Bin          string          `json:"bin_location"`
	SystemStock  decimal.Decimal `json:"system_stock"`
	AverageCount decimal.Decimal `json:"average_count"`
	DDL          decimal.Decimal `json:"ddl"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// ReportResponse contenido de una pestaña de reporte.
// En "not-scanned" Truncated indica que Rows se cortó en Limit; Total es el total real.
type ReportResponse struct {
	Tab          string             `json:"tab"`
	Rows         []ReconciledRowDTO `json:"rows,omitempty"`
	NotScanned   []NotScannedRowDTO `json:"not_scanned,omitempty"`
	Total        int                `json:"total"`
	Truncated    bool               `json:"truncated"`
	Limit        int                `json:"limit,omitempty"`
	Partial      bool               `json:"partial"`
	FailedChunks int                `json:"failed_chunks,omitempty"`
}

// VarianceReportDTO datos del resumen de variaciones en PDF.
type VarianceReportDTO struct {
	Title       string
	GeneratedAt time.Time
	Metrics     MetricsDTO
	TopShort    []ReconciledRowDTO
	TopExcess   []ReconciledRowDTO
}
