package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

var labels = []string{"architecture", "operation"}

// PrometheusSink keeps the records as Prometheus metrics, scraped from /metrics.
type PrometheusSink struct {
	executionTime *prometheus.HistogramVec
	memoryUsed    *prometheus.GaugeVec
	peakMemory    *prometheus.GaugeVec
	invocations   *prometheus.CounterVec
	coldStarts    *prometheus.CounterVec
}

func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		executionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "archbench_execution_time_ms",
			Help:    "Workload execution time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}, labels),
		memoryUsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "archbench_memory_used_mb",
			Help: "Resident memory after the last workload, in MB",
		}, labels),
		peakMemory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "archbench_peak_memory_mb",
			Help: "Peak resident memory of the instance, in MB",
		}, labels),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "archbench_invocations_total",
			Help: "Measured workload invocations",
		}, labels),
		coldStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "archbench_cold_starts_total",
			Help: "Invocations served by a fresh instance",
		}, labels),
	}

	for _, c := range []prometheus.Collector{s.executionTime, s.memoryUsed, s.peakMemory, s.invocations, s.coldStarts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusSink) Emit(_ context.Context, m *PerformanceMetrics) error {
	l := prometheus.Labels{"architecture": m.Architecture, "operation": m.Operation}
	s.executionTime.With(l).Observe(m.ExecutionTimeMs)
	s.memoryUsed.With(l).Set(m.MemoryUsedMB)
	s.peakMemory.With(l).Set(m.PeakMemoryMB)
	s.invocations.With(l).Inc()
	if m.ColdStart {
		s.coldStarts.With(l).Inc()
	}
	return nil
}
