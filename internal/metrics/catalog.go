// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot sources.
const (
	SourceCache  = "cache"
	SourceOrigin = "origin"
)

// CatalogMetrics records snapshot loads and query volume. A nil
// *CatalogMetrics is valid and records nothing.
type CatalogMetrics struct {
	snapshotLoads *prometheus.CounterVec
	snapshotSize  prometheus.Gauge
	queries       *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog collectors on reg.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_snapshot_loads_total",
		Help: "Catalog snapshot loads by source and outcome.",
	}, []string{"source", "outcome"})
	size := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_snapshot_products",
		Help: "Number of products in the most recently loaded snapshot.",
	})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Catalog queries served, by kind.",
	}, []string{"kind"})
	reg.MustRegister(loads, size, queries)
	return &CatalogMetrics{
		snapshotLoads: loads,
		snapshotSize:  size,
		queries:       queries,
	}
}

// ObserveSnapshot records a snapshot load from source. size is ignored on
// failure.
func (m *CatalogMetrics) ObserveSnapshot(source string, ok bool, size int) {
	if m == nil || m.snapshotLoads == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.snapshotLoads.WithLabelValues(source, outcome).Inc()
	if ok {
		m.snapshotSize.Set(float64(size))
	}
}

// IncQuery counts one query of the given kind.
func (m *CatalogMetrics) IncQuery(kind string) {
	if m == nil || m.queries == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.queries.WithLabelValues(kind).Inc()
}
