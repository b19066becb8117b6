package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Values of the status label of the queries counter.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// IncrementQueries counts one query against collection with the given status.
// Example: m.IncrementQueries("documents", metrics.StatusSuccess)
func (m *Metrics) IncrementQueries(collection, status string) {
	m.queriesTotal.WithLabelValues(collection, status).Inc()
}

// RecordQueryDuration records the time elapsed since start.
// Example: defer m.RecordQueryDuration(time.Now(), "documents")
func (m *Metrics) RecordQueryDuration(start time.Time, collection string) {
	m.queryDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
}

// ObserveFilterLength records the length of a rendered filter expression.
func (m *Metrics) ObserveFilterLength(collection string, length int) {
	m.filterLength.WithLabelValues(collection).Observe(float64(length))
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec("", name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec("", name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec("", name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
