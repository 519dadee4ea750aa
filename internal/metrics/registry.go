package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "basil"

// collectorGroup registers a fixed set of collectors on the default registry at most once.
type collectorGroup struct {
	once       sync.Once
	collectors []prometheus.Collector
}

func group(cs ...prometheus.Collector) *collectorGroup {
	return &collectorGroup{collectors: cs}
}

func (g *collectorGroup) register() {
	g.once.Do(func() {
		prometheus.MustRegister(g.collectors...)
	})
}
