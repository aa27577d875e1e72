// Package pdf genera el resumen de variaciones del conteo físico en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                   │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MÉTRICAS: partes / contadas / avance / faltante / sobrante │
//	│  IMPACTO NETO: valor + % sobre el valor total               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: mayores faltantes (Parte | Desc | Bin | Dif | Valor) │
//	│  TABLA: mayores sobrantes                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorShort   = &props.Color{Red: 178, Green: 34, Blue: 34}
	colorExcess  = &props.Color{Red: 34, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.VariancePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.VariancePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los montos se agrupan según la convención en-IN.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("en-IN"))}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(_ context.Context, report *dto.VarianceReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.metricsRows(report.Metrics)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("MAYORES FALTANTES", colorShort))
	m.AddRows(g.varianceTable(report.TopShort)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(sectionRow("MAYORES SOBRANTES", colorExcess))
	m.AddRows(g.varianceTable(report.TopExcess)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(report *dto.VarianceReportDTO) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) metricsRows(m dto.MetricsDTO) []core.Row {
	kv := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5, Color: color}),
		)
	}
	return []core.Row{
		row.New(14).Add(
			kv("PARTES EN MAESTRO", fmt.Sprintf("%d", m.TotalPartCount), nil),
			kv("PARTES CONTADAS", fmt.Sprintf("%d", m.ScannedCount), nil),
			kv("AVANCE", m.ProgressPercent.StringFixed(2)+"%", nil),
			kv("VALOR TOTAL", g.amount(m.TotalValue), nil),
		),
		row.New(14).Add(
			kv(fmt.Sprintf("FALTANTE (%d)", m.ShortCount), g.amount(m.TotalShortValue), colorShort),
			kv(fmt.Sprintf("SOBRANTE (%d)", m.ExcessCount), g.amount(m.TotalExcessValue), colorExcess),
			kv("IMPACTO NETO", g.amount(m.NetImpact), impactColor(m.NetImpact)),
			kv("IMPACTO %", m.NetImpactPercent.StringFixed(2)+"%", impactColor(m.NetImpact)),
		),
	}
}

func sectionRow(title string, color *props.Color) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: color, Top: 1}),
	))
}

func (g *MarotoPDFGenerator) varianceTable(rows []dto.ReconciledRowDTO) []core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	out := []core.Row{row.New(6).Add(
		h("Parte", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Bin", 2, align.Left),
		h("Dif.", 1, align.Right),
		h("Valor dif.", 3, align.Right),
	)}
	if len(rows) == 0 {
		return append(out, row.New(6).Add(col.New(12).Add(
			text.New("Sin diferencias", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	for _, r := range rows {
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(r.PartNumber, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(truncate(r.Description, 45), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(r.Bin, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(r.Difference.String(), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(g.amount(r.DiffValue), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// amount monto con dos decimales y separadores de miles.
func (g *MarotoPDFGenerator) amount(d decimal.Decimal) string {
	return "INR " + g.printer.Sprintf("%.2f", d.InexactFloat64())
}

func impactColor(d decimal.Decimal) *props.Color {
	if d.IsNegative() {
		return colorShort
	}
	return colorExcess
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
