package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the sync and score passes.
type Metrics struct {
	RecordsProcessed *prometheus.CounterVec // labels: job={sync,score}, outcome={processed,skipped,failed}
	RunDuration      *prometheus.HistogramVec
	JobRunning       *prometheus.GaugeVec
	SourceBatchSize  prometheus.Histogram
}

// NewMetrics creates and registers all collectors with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsProcessed,
		m.RunDuration,
		m.JobRunning,
		m.SourceBatchSize,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leak_priority",
			Name:      "records_total",
			Help:      "Records handled per batch job, by outcome.",
		}, []string{"job", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leak_priority",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete sync or score pass.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"job"}),
		JobRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "leak_priority",
			Name:      "job_running",
			Help:      "1 while the named job holds the run lock.",
		}, []string{"job"}),
		SourceBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leak_priority",
			Name:      "source_batch_size",
			Help:      "Number of raw submissions returned by the submission source.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}
