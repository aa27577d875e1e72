package ports

import (
	"context"
	"io"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
)

// AggregateInvalidator recibe la señal de que los agregados (métricas, reportes) quedaron obsoletos.
// El motor de conteo y las cargas de maestros no guardan agregados: solo invalidan.
type AggregateInvalidator interface {
	Invalidate(ctx context.Context)
}

// MetricsCache caché del snapshot de métricas del dashboard.
type MetricsCache interface {
	// Get devuelve (nil, false, nil) si no hay snapshot vigente.
	Get(ctx context.Context) (*dto.MetricsDTO, bool, error)
	// Generation versión vigente del snapshot; se lee antes de calcular.
	Generation(ctx context.Context) (int64, error)
	// Set publica m solo bajo gen: si hubo una invalidación posterior, el snapshot no se sirve.
	Set(ctx context.Context, gen int64, m *dto.MetricsDTO) error
	Invalidate(ctx context.Context) error
}

// PreferenceStore almacén clave-valor de preferencias por operador (última ubicación elegida).
type PreferenceStore interface {
	Load(ctx context.Context, userID string) (dto.PreferencesDTO, error)
	Save(ctx context.Context, userID string, prefs dto.PreferencesDTO) error
}

// SheetRow una fila de planilla indexada por letra de columna ("A", "B", ...).
type SheetRow map[string]string

// SheetReader lee una planilla de carga (xlsx o csv) sin la fila de encabezado.
type SheetReader interface {
	Read(r io.Reader, filename string) ([]SheetRow, error)
}

// SheetWriter escribe una planilla de una sola hoja.
type SheetWriter interface {
	Write(w io.Writer, sheet string, header []string, rows [][]any) error
}

// VariancePDFGenerator genera el resumen de variaciones en PDF.
type VariancePDFGenerator interface {
	Generate(ctx context.Context, report *dto.VarianceReportDTO) ([]byte, error)
}

// Metrics contadores operativos (prometheus en producción).
type Metrics interface {
	ScanEvent(action string)
	IngestFinished(kind, status string, rows int)
	LookupChunksFailed(op string, n int)
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) ScanEvent(string)                   {}
func (NopMetrics) IngestFinished(string, string, int) {}
func (NopMetrics) LookupChunksFailed(string, int)     {}

// NopInvalidator implementación vacía de AggregateInvalidator.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(context.Context) {}
