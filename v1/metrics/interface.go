package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector abstracts the query metrics and the dynamic metric
// factories. It is implemented by *Metrics.
type MetricsCollector interface {
	// IncrementQueries counts one query against collection with the given status.
	IncrementQueries(collection, status string)

	// RecordQueryDuration records the time elapsed since start.
	RecordQueryDuration(start time.Time, collection string)

	// ObserveFilterLength records the length of a rendered filter expression.
	ObserveFilterLength(collection string, length int)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

var _ MetricsCollector = (*Metrics)(nil)
