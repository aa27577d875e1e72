package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ScanEvent("create")
	c.ScanEvent("create")
	c.ScanEvent("delete")
	c.IngestFinished("base", "success", 120)
	c.LookupChunksFailed("resolve_many", 2)
	c.LookupChunksFailed("resolve_many", 0)
	c.RefreshFailed()
	c.ObserveRequest("GET", "/api/scans", 200, 15*time.Millisecond)
	c.ObserveRequest("POST", "/api/scans", 409, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.scanEvents.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scanEvents.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ingests.WithLabelValues("base", "success")))
	assert.Equal(t, 120.0, testutil.ToFloat64(c.ingestRows.WithLabelValues("base")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lookupFailures.WithLabelValues("resolve_many")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refreshFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("POST", "/api/scans", "4xx")))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "3xx", statusClass(304))
	assert.Equal(t, "4xx", statusClass(428))
	assert.Equal(t, "5xx", statusClass(503))
}
