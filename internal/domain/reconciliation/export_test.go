package reconciliation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockcount-api/internal/domain/entity"
)

func TestRemarkLabel(t *testing.T) {
	assert.Equal(t, "", RemarkLabel(&entity.Scan{DamageQty: dec("3")}))
	assert.Equal(t, "Interchange", RemarkLabel(&entity.Scan{RemarkType: entity.RemarkInterchange}))
	assert.Equal(t, "Damage (3 Qty)", RemarkLabel(&entity.Scan{RemarkType: entity.RemarkDamage, DamageQty: dec("3")}))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "07/03/2026", FormatDate(ts, nil))
	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "08/03/2026", FormatDate(ts, ist))
	assert.Equal(t, Placeholder, FormatDate(time.Time{}, nil))
}

func TestToExportRecords_UnaFilaPorFilaConciliada(t *testing.T) {
	scans := []*entity.Scan{
		{PartNumber: "P2", SystemStock: dec("3"), PhysicalQty: dec("5"), ScannedBy: "anita", LocationName: "B1"},
		{PartNumber: "P1", SystemStock: dec("10"), PhysicalQty: dec("8"), RemarkType: entity.RemarkDamage, DamageQty: dec("1"), RemarkDetail: "NN", CartonNo: "C-7", NewBinLocation: "N-1"},
		{PartNumber: "P7", SystemStock: dec("1.5"), PhysicalQty: dec("1.25")},
	}
	rows := BuildRows(scans, sampleIndex())
	SortByBin(rows)
	recs := ToExportRecords(rows, time.UTC)

	require.Len(t, recs, len(rows))
	for i, rec := range recs {
		assert.Equal(t, i+1, rec.SrNo)
		assert.Equal(t, rows[i].Scan.PartNumber, rec.PartNumber)
		assert.InDelta(t, rows[i].Valuation.DiffValue.InexactFloat64(), rec.DiffValue.InexactFloat64(), 0.01)
		assert.InDelta(t, rows[i].StockValue.InexactFloat64(), rec.StockValue.InexactFloat64(), 0.01)
		assert.Len(t, rec.Values(), len(FinalSheetColumns))
	}

	var p1 ExportRecord
	for _, rec := range recs {
		if rec.PartNumber == "P1" {
			p1 = rec
		}
	}
	assert.Equal(t, "Damage (1 Qty)", p1.Remark)
	assert.Equal(t, "NN", p1.RemarkDetail)
	assert.Equal(t, "C-7", p1.CartonNo)
	assert.Equal(t, "N-1", p1.NewLocation)
	assertDec(t, "-100", p1.DiffValue)
}

func TestTabValues_Anchos(t *testing.T) {
	rows := BuildRows([]*entity.Scan{{PartNumber: "P1", SystemStock: dec("1"), PhysicalQty: dec("0")}}, sampleIndex())
	vals := VarianceTabValues(rows)
	require.Len(t, vals, 1)
	assert.Len(t, vals[0], len(VarianceTabColumns))

	ns := NotScannedTabValues([]NotScannedRow{{PartNumber: "P4"}})
	assert.Len(t, ns[0], len(NotScannedTabColumns))
}
