// Package metrics expone los contadores operativos del servicio en Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/stockcount-api/internal/application/ports"
)

const namespace = "stockcount"

var _ ports.Metrics = (*Collector)(nil)

// Collector contadores de conteos, cargas, lotes fallidos, refresco y peticiones HTTP.
type Collector struct {
	scanEvents      *prometheus.CounterVec
	ingests         *prometheus.CounterVec
	ingestRows      *prometheus.CounterVec
	lookupFailures  *prometheus.CounterVec
	refreshFailures prometheus.Counter
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// NewCollector crea y registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scanEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_events_total",
				Help:      "Conteos registrados, editados o borrados",
			},
			[]string{"action"},
		),
		ingests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "master_ingests_total",
				Help:      "Cargas de maestros por tipo y resultado",
			},
			[]string{"kind", "status"},
		),
		ingestRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "master_ingest_rows_total",
				Help:      "Filas leídas en cargas de maestros",
			},
			[]string{"kind"},
		),
		lookupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookup_chunks_failed_total",
				Help:      "Lotes de búsqueda de maestros omitidos por error",
			},
			[]string{"op"},
		),
		refreshFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_refresh_failures_total",
				Help:      "Fallos del recálculo periódico de métricas",
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Peticiones HTTP por método, ruta y estado",
			},
			[]string{"method", "route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(c.scanEvents, c.ingests, c.ingestRows, c.lookupFailures, c.refreshFailures, c.requests, c.latency)
	return c
}

func (c *Collector) ScanEvent(action string) {
	c.scanEvents.WithLabelValues(action).Inc()
}

func (c *Collector) IngestFinished(kind, status string, rows int) {
	c.ingests.WithLabelValues(kind, status).Inc()
	c.ingestRows.WithLabelValues(kind).Add(float64(rows))
}

func (c *Collector) LookupChunksFailed(op string, n int) {
	if n <= 0 {
		return
	}
	c.lookupFailures.WithLabelValues(op).Add(float64(n))
}

// RefreshFailed cuenta un fallo del refresco periódico.
func (c *Collector) RefreshFailed() {
	c.refreshFailures.Inc()
}

// ObserveRequest registra una petición HTTP terminada.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
