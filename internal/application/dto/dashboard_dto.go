package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsDTO respuesta de GET /api/dashboard/metrics.
type MetricsDTO struct {
	TotalPartCount   int             `json:"total_part_count"`
	TotalValue       decimal.Decimal `json:"total_value"` // Σ base_stock * ddl sobre todo el maestro base
	ScannedCount     int             `json:"scanned_count"`
	ShortCount       int             `json:"short_count"`
	ExcessCount      int             `json:"excess_count"`
	MatchedCount     int             `json:"matched_count"`
	TotalShortQty    decimal.Decimal `json:"total_short_qty"`
	TotalShortValue  decimal.Decimal `json:"total_short_value"`
	TotalExcessQty   decimal.Decimal `json:"total_excess_qty"`
	TotalExcessValue decimal.Decimal `json:"total_excess_value"`
	NetImpact        decimal.Decimal `json:"net_impact"`
	NetImpactPercent decimal.Decimal `json:"net_impact_percent"`
	ProgressPercent  decimal.Decimal `json:"progress_percent"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// SyncPolicyResponse contrato de refresco que deben seguir los clientes.
type SyncPolicyResponse struct {
	IntervalSeconds       float64 `json:"interval_seconds"`
	JitterMillis          int64   `json:"jitter_millis"`
	MaxBackoffSeconds     float64 `json:"max_backoff_seconds"`
	StalenessBoundSeconds float64 `json:"staleness_bound_seconds"`
}
