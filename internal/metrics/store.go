package metrics

import "github.com/prometheus/client_golang/prometheus"

// Store Prometheus metrics.
var (
	Collections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collections",
		Help:      "Number of live collections",
	})

	VectorsInsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vectors_inserted_total",
		Help:      "Total vectors inserted",
	})

	VectorsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vectors_deleted_total",
		Help:      "Total vectors deleted",
	})

	SnapshotTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_total",
			Help:      "Snapshot saves and loads by outcome",
		},
		[]string{"status"},
	)
)

var storeMetrics = group(Collections, VectorsInsertedTotal, VectorsDeletedTotal, SnapshotTotal)

// RegisterStoreMetrics registers the store collectors. Safe to call repeatedly.
func RegisterStoreMetrics() { storeMetrics.register() }
