package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

func TestParseTab(t *testing.T) {
	for in, want := range map[string]Tab{"short": TabShortage, "SHORTAGE": TabShortage, "excess": TabExcess, "non-counted": TabNotScanned, "not-scanned": TabNotScanned} {
		got, err := ParseTab(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseTab("otros")
	assert.Error(t, err)
	assert.Equal(t, "NOT_SCANNED", TabNotScanned.ExportName())
}

func TestShortageExcessRows(t *testing.T) {
	scans := []*entity.Scan{
		{PartNumber: "A", SystemStock: dec("5"), PhysicalQty: dec("4")},
		{PartNumber: "B", SystemStock: dec("5"), PhysicalQty: dec("5")},
		{PartNumber: "C", SystemStock: dec("5"), PhysicalQty: dec("9")},
	}
	rows := BuildRows(scans, MasterIndex{})
	short := ShortageRows(rows)
	excess := ExcessRows(rows)
	require.Len(t, short, 1)
	require.Len(t, excess, 1)
	assert.Equal(t, "A", short[0].Scan.PartNumber)
	assert.Equal(t, "C", excess[0].Scan.PartNumber)
}

func TestNotScanned_UsaStockResueltoYTope(t *testing.T) {
	base := []*entity.BasePart{
		{PartNumber: "P1", BaseStock: dec("5"), PurchasePrice: dec("2")},  // contado
		{PartNumber: "P2", BaseStock: dec("5"), PurchasePrice: dec("3")},  // diario lo deja en 0
		{PartNumber: "P3", BaseStock: dec("0"), PurchasePrice: dec("4")},  // diario lo sube a 6
		{PartNumber: "P4", BaseStock: dec("1"), PurchasePrice: dec("10")}, // candidato
		{PartNumber: "P5", BaseStock: dec("0")},                           // sin stock
	}
	daily := []*entity.DailyPart{
		{PartNumber: "P2", LatestStock: dec("0")},
		{PartNumber: "P3", LatestStock: dec("6"), LatestBin: "D-1"},
	}
	idx := MergeMasters(base, daily, nil)
	scanned := ScannedSet([]*entity.Scan{{PartNumber: "p1"}})

	res := NotScanned(base, idx, scanned, 0)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.Total)
	assert.False(t, res.Truncated)
	assert.Equal(t, "P3", res.Rows[0].PartNumber)
	assert.Equal(t, "D-1", res.Rows[0].Bin)
	assertDec(t, "24", res.Rows[0].StockValue)
	assert.Equal(t, "P4", res.Rows[1].PartNumber)

	capped := NotScanned(base, idx, scanned, 1)
	require.Len(t, capped.Rows, 1)
	assert.Equal(t, 2, capped.Total)
	assert.True(t, capped.Truncated)
}

func TestFilterNotScanned(t *testing.T) {
	rows := []NotScannedRow{{PartNumber: "P1", Description: "Filtro"}, {PartNumber: "Q2", Description: "Correa"}}
	assert.Len(t, FilterNotScanned(rows, "filtro"), 1)
	assert.Len(t, FilterNotScanned(rows, " "), 2)
}
