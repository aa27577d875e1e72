package reconciliation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

func sampleIndex() MasterIndex {
	return MergeMasters(
		[]*entity.BasePart{
			{PartNumber: "P1", Description: "Filtro", DefaultBin: "b-02", PurchasePrice: dec("50"), BaseStock: dec("10")},
			{PartNumber: "P2", Description: "Bujía", DefaultBin: "A-01", PurchasePrice: dec("20"), BaseStock: dec("3")},
		},
		[]*entity.DailyPart{{PartNumber: "P3", Description: "Sólo diario", LatestBin: " a-01 ", LatestStock: dec("1")}},
		[]*entity.AverageCount{{PartNumber: "P1", AverageCount: dec("9")}, {PartNumber: "P9", AverageCount: dec("2")}},
	)
}

func TestBuildRows_EnriqueceYValoriza(t *testing.T) {
	scans := []*entity.Scan{{PartNumber: "P1", SystemStock: dec("10"), PhysicalQty: dec("8"), LocationName: "Bodega 1"}}
	rows := BuildRows(scans, sampleIndex())
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "Filtro", r.Description)
	assert.Equal(t, "b-02", r.Bin)
	assert.Equal(t, "Bodega 1", r.Warehouse)
	assertDec(t, "9", r.AverageCount)
	assertDec(t, "-100", r.Valuation.DiffValue)
	assertDec(t, "500", r.StockValue)
	assert.True(t, r.InMasters)
}

func TestBuildRows_SinEntradaUsaSnapshot(t *testing.T) {
	scans := []*entity.Scan{
		{PartNumber: "UNKNOWN", Description: "Encontrado", ActualBin: "Z-9", SystemStock: dec("0"), PhysicalQty: dec("2")},
		{PartNumber: "BLANK"},
		{PartNumber: "P9", Description: "Solo promedio", ActualBin: "Q-1"},
	}
	rows := BuildRows(scans, sampleIndex())
	require.Len(t, rows, 3)

	assert.Equal(t, "Encontrado", rows[0].Description)
	assert.Equal(t, "Z-9", rows[0].Bin)
	assertDec(t, "0", rows[0].Valuation.DiffValue)

	assert.Equal(t, Placeholder, rows[1].Description)
	assert.Equal(t, Placeholder, rows[1].Bin)
	assert.Equal(t, Placeholder, rows[1].Warehouse)

	assert.Equal(t, "Q-1", rows[2].Bin)
	assertDec(t, "2", rows[2].AverageCount)
	assert.False(t, rows[2].InMasters)
}

func TestSortByBin_SinDistinguirMayusculasYEstable(t *testing.T) {
	now := time.Now()
	scans := []*entity.Scan{
		{PartNumber: "P1", CreatedAt: now},                    // b-02
		{PartNumber: "P3", CreatedAt: now},                    // " a-01 " del diario
		{PartNumber: "P2", CreatedAt: now},                    // A-01
		{PartNumber: "X", ActualBin: "C-1", CreatedAt: now},  // snapshot
	}
	rows := BuildRows(scans, sampleIndex())
	SortByBin(rows)

	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.Scan.PartNumber)
	}
	assert.Equal(t, []string{"P3", "P2", "P1", "X"}, got)
}

func TestFilterRows(t *testing.T) {
	scans := []*entity.Scan{
		{PartNumber: "P1", ScannedBy: "ravi"},
		{PartNumber: "P2", ScannedBy: "anita"},
		{PartNumber: "ZZ", ScannedBy: "otro"},
	}
	rows := BuildRows(scans, sampleIndex())

	assert.Len(t, FilterRows(rows, ""), 3)
	assert.Len(t, FilterRows(rows, "RAVI"), 1)
	assert.Len(t, FilterRows(rows, "bujía"), 1)
	assert.Len(t, FilterRows(rows, "p"), 2)
	assert.Len(t, FilterReportRows(rows, "anita"), 0)
}

func TestSummarize(t *testing.T) {
	scans := []*entity.Scan{
		{PartNumber: "P1", SystemStock: dec("10"), PhysicalQty: dec("8")}, // -100, stock 500
		{PartNumber: "P2", SystemStock: dec("3"), PhysicalQty: dec("5")},  // +40, stock 60
	}
	st := Summarize(BuildRows(scans, sampleIndex()))
	assert.Equal(t, 2, st.UniqueParts)
	assertDec(t, "100", st.ShortValue)
	assertDec(t, "40", st.ExcessValue)
	assertDec(t, "560", st.StockValue)
}
