package perf

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	opCountDesc = prometheus.NewDesc(
		"richlog_operation_total",
		"Number of logging operations performed, by operation.",
		[]string{"operation"}, nil,
	)
	opDurationDesc = prometheus.NewDesc(
		"richlog_operation_duration_seconds_total",
		"Cumulative duration of logging operations, by operation.",
		[]string{"operation"}, nil,
	)
)

// Collector exposes a tracker's stats as Prometheus metrics.
type Collector struct {
	tracker *Tracker
}

// NewCollector creates a collector for the tracker. Register it on any
// prometheus.Registerer:
//
//	prometheus.MustRegister(perf.NewCollector(tracker))
func NewCollector(t *Tracker) *Collector {
	return &Collector{tracker: t}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- opCountDesc
	ch <- opDurationDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for op, stats := range c.tracker.Stats() {
		ch <- prometheus.MustNewConstMetric(
			opCountDesc, prometheus.CounterValue, float64(stats.Count), op,
		)
		ch <- prometheus.MustNewConstMetric(
			opDurationDesc, prometheus.CounterValue, stats.Total.Seconds(), op,
		)
	}
}
