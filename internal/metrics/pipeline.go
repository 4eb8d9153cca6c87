package metrics

import "github.com/prometheus/client_golang/prometheus"

// Answer generation and pipeline metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of answer generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Answer generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each RAG pipeline stage in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"stage", "status"},
	)

	SessionBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_builds_total",
			Help:      "Pipeline constructions triggered by uploads",
		},
		[]string{"status"},
	)

	SessionChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_chunks",
			Help:      "Number of chunks indexed by the active pipeline",
		},
	)
)

func pipelineCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		GenerationRequestsTotal,
		GenerationRequestDuration,
		PipelineStageDuration,
		SessionBuildsTotal,
		SessionChunks,
	}
}
