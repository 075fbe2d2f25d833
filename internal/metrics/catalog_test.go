package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCatalogMetrics_ObserveSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)

	m.ObserveSnapshot(SourceOrigin, true, 42)
	m.ObserveSnapshot(SourceCache, true, 42)
	m.ObserveSnapshot(SourceOrigin, false, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotLoads.WithLabelValues(SourceOrigin, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotLoads.WithLabelValues(SourceCache, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotLoads.WithLabelValues(SourceOrigin, "failure")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.snapshotSize), "failed loads keep the last size")
}

func TestCatalogMetrics_IncQuery(t *testing.T) {
	m := NewCatalogMetrics(prometheus.NewRegistry())

	m.IncQuery("search")
	m.IncQuery("search")
	m.IncQuery("")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("unknown")))
}

func TestCatalogMetrics_NilSafe(t *testing.T) {
	var m *CatalogMetrics
	assert.NotPanics(t, func() {
		m.ObserveSnapshot(SourceCache, true, 1)
		m.IncQuery("listing")
	})
	assert.NotPanics(t, func() {
		NewCatalogMetrics(nil).IncQuery("listing")
	})
}
