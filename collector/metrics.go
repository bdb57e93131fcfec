package collector

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the collector's own health counters, served on /metrics.
type Metrics struct {
	TickDuration prometheus.Histogram
	SourceErrors *prometheus.CounterVec
	DecodeIssues prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "perfmon_tick_duration_seconds",
			Help:    "Wall time of one collection tick, sampling through publish.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perfmon_source_errors_total",
			Help: "Sampling failures by source and error kind.",
		}, []string{"source", "kind"}),
		DecodeIssues: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perfmon_sensor_decode_issues_total",
			Help: "Ticks on which the sensor buffer decode skipped entries.",
		}),
	}
	reg.MustRegister(m.TickDuration, m.SourceErrors, m.DecodeIssues)
	return m
}
