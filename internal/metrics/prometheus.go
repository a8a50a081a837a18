package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus records operations as a counter and a latency histogram.
type Prometheus struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheus registers the scenariokeeper collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scenariokeeper_operations_total",
			Help: "Persistence operations by operation and status.",
		}, []string{"operation", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scenariokeeper_operation_duration_seconds",
			Help:    "Latency of persistence operations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
	}
}

// Observe implements Recorder.
func (p *Prometheus) Observe(operation string, success bool, d time.Duration) {
	if operation == "" {
		return
	}
	p.ops.WithLabelValues(operation, status(success)).Inc()
	p.duration.WithLabelValues(operation).Observe(d.Seconds())
}
