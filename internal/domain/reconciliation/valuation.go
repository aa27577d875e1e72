package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Valuation clasificación de una diferencia. Solo uno de los buckets es distinto de cero.
type Valuation struct {
	Difference  decimal.Decimal
	DiffValue   decimal.Decimal // Difference * precio (con signo)
	ShortQty    decimal.Decimal
	ShortValue  decimal.Decimal
	ExcessQty   decimal.Decimal
	ExcessValue decimal.Decimal
}

// IsShort diferencia negativa.
func (v Valuation) IsShort() bool { return v.Difference.IsNegative() }

// IsExcess diferencia positiva.
func (v Valuation) IsExcess() bool { return v.Difference.IsPositive() }

// Classify valoriza physical - system al precio dado.
func Classify(physical, system, price decimal.Decimal) Valuation {
	diff := physical.Sub(system)
	v := Valuation{Difference: diff, DiffValue: diff.Mul(price)}
	switch {
	case diff.IsNegative():
		v.ShortQty = diff.Abs()
		v.ShortValue = v.ShortQty.Mul(price)
	case diff.IsPositive():
		v.ExcessQty = diff
		v.ExcessValue = diff.Mul(price)
	}
	return v
}

// Metrics agregados globales del conteo.
type Metrics struct {
	TotalPartCount   int
	TotalValue       decimal.Decimal // Σ base_stock * precio sobre TODO el maestro base
	ScannedCount     int
	ShortCount       int
	ExcessCount      int
	MatchedCount     int
	TotalShortQty    decimal.Decimal
	TotalShortValue  decimal.Decimal
	TotalExcessQty   decimal.Decimal
	TotalExcessValue decimal.Decimal
	NetImpact        decimal.Decimal // exceso - faltante
	NetImpactPercent decimal.Decimal // 0 cuando TotalValue es 0
	ProgressPercent  decimal.Decimal // scanned / total base, 0 cuando no hay base
}

// ComputeMetrics calcula los agregados a partir de todos los conteos y todo el maestro base.
// Cada conteo se valoriza con su snapshot de stock y el precio del maestro base (0 si no existe).
func ComputeMetrics(scans []*entity.Scan, base []*entity.BasePart) Metrics {
	prices := make(map[string]decimal.Decimal, len(base))
	m := Metrics{TotalPartCount: len(base)}
	for _, b := range base {
		if b == nil {
			continue
		}
		prices[entity.NormalizePartNumber(b.PartNumber)] = b.PurchasePrice
		m.TotalValue = m.TotalValue.Add(b.StockValue())
	}

	for _, s := range scans {
		if s == nil {
			continue
		}
		m.ScannedCount++
		v := Classify(s.PhysicalQty, s.SystemStock, prices[entity.NormalizePartNumber(s.PartNumber)])
		switch {
		case v.IsShort():
			m.ShortCount++
			m.TotalShortQty = m.TotalShortQty.Add(v.ShortQty)
			m.TotalShortValue = m.TotalShortValue.Add(v.ShortValue)
		case v.IsExcess():
			m.ExcessCount++
			m.TotalExcessQty = m.TotalExcessQty.Add(v.ExcessQty)
			m.TotalExcessValue = m.TotalExcessValue.Add(v.ExcessValue)
		default:
			m.MatchedCount++
		}
	}

	m.NetImpact, m.NetImpactPercent = NetImpact(m.TotalExcessValue, m.TotalShortValue, m.TotalValue)
	if m.TotalPartCount > 0 {
		m.ProgressPercent = decimal.NewFromInt(int64(m.ScannedCount)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(m.TotalPartCount))).
			Round(2)
	}
	return m
}

// NetImpact devuelve excess - short y su porcentaje sobre total (0 si total es 0).
func NetImpact(excess, short, total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	net := excess.Sub(short)
	if total.IsZero() {
		return net, decimal.Zero
	}
	return net, net.Div(total).Mul(hundred).Round(4)
}
