// Package reports construye las vistas conciliadas: hoja final, pestañas de reporte y exportaciones.
package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
	"github.com/jhoicas/stockcount-api/internal/domain/repository"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

// DefaultNotScannedLimit tope de filas de la pestaña "no contados".
const DefaultNotScannedLimit = 2000

const (
	finalSheetName  = "Final Audit Sheet"
	pdfTopRows      = 10
	finalFilePrefix = "FINAL_AUDIT_REPORT"
)

// Resolver resolución de maestros usada por los reportes.
type Resolver interface {
	ResolveMany(ctx context.Context, partNumbers []string) (reconciliation.MasterIndex, masters.Enrichment)
	ResolveCatalog(ctx context.Context) (*masters.Catalog, error)
}

// MetricsSource métricas globales para el resumen PDF.
type MetricsSource interface {
	GetMetrics(ctx context.Context) (*dto.MetricsDTO, error)
}

// Config parámetros de los reportes.
type Config struct {
	NotScannedLimit int
	SheetName       string
	Location        *time.Location // zona para la columna DATE
}

// ReportUseCase vistas conciliadas y exportaciones.
type ReportUseCase struct {
	scans    repository.ScanRepository
	resolver Resolver
	writer   ports.SheetWriter
	pdf      ports.VariancePDFGenerator
	metrics  MetricsSource
	cfg      Config
	log      *logger.Logger
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. writer, pdf y metrics pueden ser nil si no se exporta.
func NewReportUseCase(
	scans repository.ScanRepository,
	resolver Resolver,
	writer ports.SheetWriter,
	pdf ports.VariancePDFGenerator,
	metrics MetricsSource,
	cfg Config,
	log *logger.Logger,
) *ReportUseCase {
	if cfg.NotScannedLimit <= 0 {
		cfg.NotScannedLimit = DefaultNotScannedLimit
	}
	if cfg.SheetName == "" {
		cfg.SheetName = finalSheetName
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		scans: scans, resolver: resolver, writer: writer, pdf: pdf, metrics: metrics,
		cfg: cfg, log: log.Component("reports"), now: time.Now,
	}
}

// reconciled lee todos los conteos (paginado), resuelve sus maestros por lotes y ordena por bin.
func (uc *ReportUseCase) reconciled(ctx context.Context) ([]reconciliation.Row, masters.Enrichment, error) {
	scans, err := uc.scans.ListAll(ctx)
	if err != nil {
		return nil, masters.Enrichment{}, domain.NewPersistenceError("reportes: leer conteos", err)
	}
	pns := make([]string, 0, len(scans))
	for _, s := range scans {
		pns = append(pns, s.PartNumber)
	}
	idx, enr := uc.resolver.ResolveMany(ctx, pns)
	if enr.Partial() {
		uc.log.Warn().Err(enr.Err("hoja final")).Msg("enriquecimiento parcial")
	}
	rows := reconciliation.BuildRows(scans, idx)
	reconciliation.SortByBin(rows)
	return rows, enr, nil
}

// FinalSheet hoja final filtrada por q (parte, descripción u operador) con su resumen.
func (uc *ReportUseCase) FinalSheet(ctx context.Context, q string) (*dto.FinalSheetResponse, error) {
	rows, enr, err := uc.reconciled(ctx)
	if err != nil {
		return nil, err
	}
	rows = reconciliation.FilterRows(rows, q)
	st := reconciliation.Summarize(rows)
	return &dto.FinalSheetResponse{
		Rows: toRowDTOs(rows),
		Stats: dto.SheetStatsDTO{
			UniqueParts: st.UniqueParts,
			ShortValue:  st.ShortValue,
			ExcessValue: st.ExcessValue,
			StockValue:  st.StockValue,
		},
		Partial:      enr.Partial(),
		FailedChunks: enr.FailedChunks,
	}, nil
}

// Report contenido de una pestaña filtrado por q (parte o descripción).
func (uc *ReportUseCase) Report(ctx context.Context, tab reconciliation.Tab, q string) (*dto.ReportResponse, error) {
	if tab == reconciliation.TabNotScanned {
		res, enr, err := uc.notScanned(ctx)
		if err != nil {
			return nil, err
		}
		rows := reconciliation.FilterNotScanned(res.Rows, q)
		return &dto.ReportResponse{
			Tab:          string(tab),
			NotScanned:   toNotScannedDTOs(rows),
			Total:        res.Total,
			Truncated:    res.Truncated,
			Limit:        uc.cfg.NotScannedLimit,
			Partial:      enr.Partial(),
			FailedChunks: enr.FailedChunks,
		}, nil
	}

	rows, enr, err := uc.varianceRows(ctx, tab, q)
	if err != nil {
		return nil, err
	}
	return &dto.ReportResponse{
		Tab:          string(tab),
		Rows:         toRowDTOs(rows),
		Total:        len(rows),
		Partial:      enr.Partial(),
		FailedChunks: enr.FailedChunks,
	}, nil
}

func (uc *ReportUseCase) varianceRows(ctx context.Context, tab reconciliation.Tab, q string) ([]reconciliation.Row, masters.Enrichment, error) {
	rows, enr, err := uc.reconciled(ctx)
	if err != nil {
		return nil, enr, err
	}
	switch tab {
	case reconciliation.TabShortage:
		rows = reconciliation.ShortageRows(rows)
	case reconciliation.TabExcess:
		rows = reconciliation.ExcessRows(rows)
	default:
		return nil, enr, domain.NewValidationError("tab", fmt.Sprintf("pestaña desconocida: %s", tab))
	}
	return reconciliation.FilterReportRows(rows, q), enr, nil
}

// notScanned recorre el maestro base completo; el tope se informa con Truncated, nunca en silencio.
func (uc *ReportUseCase) notScanned(ctx context.Context) (reconciliation.NotScannedResult, masters.Enrichment, error) {
	cat, err := uc.resolver.ResolveCatalog(ctx)
	if err != nil {
		return reconciliation.NotScannedResult{}, masters.Enrichment{}, err
	}
	scans, err := uc.scans.ListAll(ctx)
	if err != nil {
		return reconciliation.NotScannedResult{}, masters.Enrichment{}, domain.NewPersistenceError("reportes: leer conteos", err)
	}
	res := reconciliation.NotScanned(cat.Base, cat.Index, reconciliation.ScannedSet(scans), uc.cfg.NotScannedLimit)
	if res.Truncated {
		uc.log.Info().Int("total", res.Total).Int("limit", uc.cfg.NotScannedLimit).Msg("reporte no contados truncado")
	}
	return res, cat.Enrichment, nil
}

// ExportFinalSheet escribe el reporte final (orden de la hoja final) y devuelve el nombre de archivo.
func (uc *ReportUseCase) ExportFinalSheet(ctx context.Context, w io.Writer) (string, error) {
	if uc.writer == nil {
		return "", fmt.Errorf("reportes: exportación no configurada")
	}
	rows, _, err := uc.reconciled(ctx)
	if err != nil {
		return "", err
	}
	recs := reconciliation.ToExportRecords(rows, uc.cfg.Location)
	values := make([][]any, 0, len(recs))
	for _, r := range recs {
		values = append(values, r.Values())
	}
	if err := uc.writer.Write(w, uc.cfg.SheetName, reconciliation.FinalSheetColumns, values); err != nil {
		return "", fmt.Errorf("reportes: escribir planilla: %w", err)
	}
	return uc.fileName(finalFilePrefix), nil
}

// ExportReport exporta la pestaña filtrada como `<TAB>_<fecha>.xlsx`.
func (uc *ReportUseCase) ExportReport(ctx context.Context, tab reconciliation.Tab, q string, w io.Writer) (string, error) {
	if uc.writer == nil {
		return "", fmt.Errorf("reportes: exportación no configurada")
	}
	var (
		header []string
		values [][]any
	)
	if tab == reconciliation.TabNotScanned {
		res, _, err := uc.notScanned(ctx)
		if err != nil {
			return "", err
		}
		header = reconciliation.NotScannedTabColumns
		values = reconciliation.NotScannedTabValues(reconciliation.FilterNotScanned(res.Rows, q))
	} else {
		rows, _, err := uc.varianceRows(ctx, tab, q)
		if err != nil {
			return "", err
		}
		header = reconciliation.VarianceTabColumns
		values = reconciliation.VarianceTabValues(rows)
	}
	if len(values) == 0 {
		return "", domain.NewValidationError("tab", "no hay datos para exportar")
	}
	if err := uc.writer.Write(w, tab.ExportName(), header, values); err != nil {
		return "", fmt.Errorf("reportes: escribir planilla: %w", err)
	}
	return uc.fileName(tab.ExportName()), nil
}

// VariancePDF resumen de variaciones (métricas + mayores faltantes y sobrantes).
func (uc *ReportUseCase) VariancePDF(ctx context.Context) ([]byte, string, error) {
	if uc.pdf == nil || uc.metrics == nil {
		return nil, "", fmt.Errorf("reportes: PDF no configurado")
	}
	m, err := uc.metrics.GetMetrics(ctx)
	if err != nil {
		return nil, "", err
	}
	rows, _, err := uc.reconciled(ctx)
	if err != nil {
		return nil, "", err
	}
	report := &dto.VarianceReportDTO{
		Title:       "Resumen de variaciones del conteo físico",
		GeneratedAt: uc.now(),
		Metrics:     *m,
		TopShort:    toRowDTOs(topByValue(reconciliation.ShortageRows(rows), pdfTopRows)),
		TopExcess:   toRowDTOs(topByValue(reconciliation.ExcessRows(rows), pdfTopRows)),
	}
	pdf, err := uc.pdf.Generate(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reportes: generar PDF: %w", err)
	}
	name := fmt.Sprintf("VARIANCE_SUMMARY_%s.pdf", uc.now().In(uc.cfg.Location).Format("2006-01-02"))
	return pdf, name, nil
}

func (uc *ReportUseCase) fileName(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, uc.now().UTC().Format("2006-01-02"))
}
