package scanning

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
	"github.com/jhoicas/stockcount-api/internal/testutil/memrepo"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

const (
	locMain = "6f1c2a70-8a3e-4c1e-9b1e-1f2d3c4b5a69"
	locOff  = "0b6e4f0a-2d7c-4a8e-9f3b-5c1d2e3f4a5b"
)

type fixture struct {
	scans *memrepo.Scans
	inv   *memrepo.Invalidator
	uc    *ScanUseCase
}

func qty(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := memrepo.NewBaseParts(
		&entity.BasePart{PartNumber: "P1", Description: "Filtro", DefaultBin: "A-01", PurchasePrice: decimal.NewFromInt(50), BaseStock: decimal.NewFromInt(10)},
	)
	daily := memrepo.NewDailyParts(&entity.DailyPart{PartNumber: "D1", LatestBin: "D-09", LatestStock: decimal.NewFromInt(4), UploadDate: time.Now()})
	avg := memrepo.NewAverageCounts(&entity.AverageCount{PartNumber: "P1", AverageCount: decimal.NewFromInt(7)})
	locs := memrepo.NewLocations(
		&entity.Location{ID: locMain, Name: "Bodega 1", IsActive: true},
		&entity.Location{ID: locOff, Name: "Cerrada", IsActive: false},
	)
	f := &fixture{scans: memrepo.NewScans(), inv: &memrepo.Invalidator{}}
	resolver := masters.NewResolverUseCase(base, daily, avg, 0, nil, nil)
	f.uc = NewScanUseCase(f.scans, locs, resolver, f.inv, nil, nil)
	return f
}

func saveReq(pn string, q *decimal.Decimal) dto.SaveScanRequest {
	return dto.SaveScanRequest{PartNumber: pn, PhysicalQty: q, LocationID: locMain}
}

// ─── Lookup ───────────────────────────────────────────────────────────────────

func TestDetectPartNumber(t *testing.T) {
	assert.Equal(t, "P1", DetectPartNumber("  p1 QTY:10 LOT-9"))
	assert.Equal(t, "", DetectPartNumber("   "))
}

func TestLookup_BorradorDesdeMaestros(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Lookup(context.Background(), "p1 extra")
	require.NoError(t, err)
	assert.False(t, resp.Duplicate)
	assert.False(t, resp.MissingInMasters)
	require.NotNil(t, resp.Draft)
	assert.Equal(t, "P1", resp.Draft.PartNumber)
	assert.Equal(t, "Filtro", resp.Draft.Description)
	assert.Equal(t, "A-01", resp.Draft.ActualBin)
	assert.True(t, resp.Draft.SystemStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Draft.AverageCount.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, "base", resp.Draft.StockSource)
}

func TestLookup_SoloDiario(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Lookup(context.Background(), "d1")
	require.NoError(t, err)
	assert.False(t, resp.MissingInMasters)
	assert.Equal(t, "D-09", resp.Draft.ActualBin)
	assert.True(t, resp.Draft.SystemStock.Equal(decimal.NewFromInt(4)))
}

func TestLookup_AusenteEnMaestrosEsGuardable(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Lookup(context.Background(), "NEW-9")
	require.NoError(t, err)
	assert.True(t, resp.MissingInMasters)
	assert.True(t, resp.Draft.SystemStock.IsZero())
	assert.Equal(t, reconciliation.NoBin, resp.Draft.ActualBin)

	saved, err := f.uc.Save(context.Background(), "ravi", saveReq("NEW-9", qty(3)))
	require.NoError(t, err)
	assert.True(t, saved.Difference.Equal(decimal.NewFromInt(3)))
}

// ─── Save ─────────────────────────────────────────────────────────────────────

func TestSave_ValidacionSinEscritura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]dto.SaveScanRequest{
		"sin parte":             {PhysicalQty: qty(1), LocationID: locMain},
		"sin ubicación":         {PartNumber: "P1", PhysicalQty: qty(1)},
		"sin cantidad":          {PartNumber: "P1", LocationID: locMain},
		"negativa":              {PartNumber: "P1", PhysicalQty: qty(-1), LocationID: locMain},
		"remark":                {PartNumber: "P1", PhysicalQty: qty(1), LocationID: locMain, RemarkType: "Otro"},
		"ubicación malformada":  {PartNumber: "P1", PhysicalQty: qty(1), LocationID: "nope"},
		"ubicación inexistente": {PartNumber: "P1", PhysicalQty: qty(1), LocationID: "9d2f6a1e-3b4c-4d5e-8f70-112233445566"},
	}
	for name, in := range cases {
		_, err := f.uc.Save(ctx, "ravi", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
	_, err := f.uc.Save(ctx, "ravi", dto.SaveScanRequest{PartNumber: "P1", PhysicalQty: qty(1), LocationID: locOff})
	assert.ErrorIs(t, err, domain.ErrInactiveLocation)

	assert.Equal(t, 0, f.scans.Len())
	assert.Equal(t, 0, f.inv.Calls())
}

func TestSave_CalculaDiferenciaEInvalida(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Save(context.Background(), "ravi", saveReq(" p1 ", qty(8)))
	require.NoError(t, err)

	assert.Equal(t, "P1", resp.PartNumber)
	assert.True(t, resp.SystemStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Difference.Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, "A-01", resp.ActualBin)
	assert.Equal(t, "Bodega 1", resp.LocationName)
	assert.Equal(t, "ravi", resp.ScannedBy)
	assert.Equal(t, 1, f.inv.Calls())
}

func TestSave_DuplicadoSeRedirigeAEdicion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Save(ctx, "ravi", saveReq("P1", qty(8)))
	require.NoError(t, err)

	lookup, err := f.uc.Lookup(ctx, "P1")
	require.NoError(t, err)
	require.True(t, lookup.Duplicate)
	assert.Equal(t, first.ID, lookup.Existing.ID)
	assert.True(t, lookup.Existing.AverageCount.Equal(decimal.NewFromInt(7)))

	_, err = f.uc.Save(ctx, "anita", saveReq("P1", qty(9)))
	var dup *domain.DuplicateScanError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.Existing.ID)
	assert.True(t, dup.AverageCount.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, f.scans.Len())

	edit := saveReq("P1", qty(9))
	edit.ID = first.ID
	updated, err := f.uc.Save(ctx, "anita", edit)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.True(t, updated.Difference.Equal(decimal.NewFromInt(-1)))
	assert.True(t, updated.AverageCount.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, f.scans.Len())
}

func TestSave_EdicionDeIDInexistente(t *testing.T) {
	f := newFixture(t)
	in := saveReq("P1", qty(1))
	in.ID = "no-existe"
	_, err := f.uc.Save(context.Background(), "ravi", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_UbicacionMalformadaNoEsReintentable(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Save(context.Background(), "ravi", dto.SaveScanRequest{PartNumber: "P1", PhysicalQty: qty(1), LocationID: "x"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "location_id", ve.Field)
	assert.False(t, domain.IsRetryable(err))
}

func TestIDsMalformadosSonNoEncontrados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Correct(ctx, "abc", dto.CorrectScanRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, "abc"), domain.ErrNotFound)
	assert.False(t, domain.IsRetryable(f.uc.Delete(ctx, "abc")))
}

// ─── Correct / Delete ─────────────────────────────────────────────────────────

func TestCorrect_RecalculaContraSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.uc.Save(ctx, "ravi", saveReq("P1", qty(8)))
	require.NoError(t, err)

	damage := entity.RemarkDamage
	resp, err := f.uc.Correct(ctx, saved.ID, dto.CorrectScanRequest{PhysicalQty: qty(12), RemarkType: &damage, DamageQty: qty(2)})
	require.NoError(t, err)
	assert.True(t, resp.Difference.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, entity.RemarkDamage, resp.RemarkType)
	assert.True(t, resp.SystemStock.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, f.inv.Calls())

	_, err = f.uc.Correct(ctx, "nope", dto.CorrectScanRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_LaParteVuelveAContarse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.uc.Save(ctx, "ravi", saveReq("P1", qty(8)))
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, saved.ID))
	assert.ErrorIs(t, f.uc.Delete(ctx, saved.ID), domain.ErrNotFound)

	lookup, err := f.uc.Lookup(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, lookup.Duplicate)
}

func TestDeleteAll_RequiereConfirmacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Save(ctx, "ravi", saveReq("P1", qty(8)))
	require.NoError(t, err)
	_, err = f.uc.Save(ctx, "ravi", saveReq("D1", qty(1)))
	require.NoError(t, err)

	_, err = f.uc.DeleteAll(ctx, false)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Equal(t, 2, f.scans.Len())

	n, err := f.uc.DeleteAll(ctx, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 0, f.scans.Len())
}

func TestList_IncluyePromedios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Save(ctx, "ravi", saveReq("P1", qty(8)))
	require.NoError(t, err)

	list, err := f.uc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.True(t, list.Items[0].AverageCount.Equal(decimal.NewFromInt(7)))
	assert.False(t, list.Partial)
}
