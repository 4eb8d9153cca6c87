package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// Register adds every docqa collector to the default registry.
// Must be called from main; repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		var all []prometheus.Collector
		all = append(all, httpCollectors()...)
		all = append(all, embeddingCollectors()...)
		all = append(all, pipelineCollectors()...)
		prometheus.MustRegister(all...)
	})
}
