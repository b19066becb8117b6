package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// filterLengthBuckets covers rendered filter expressions from a few bytes to
// about 256 KiB.
var filterLengthBuckets = prometheus.ExponentialBuckets(16, 4, 8)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing query metrics.
type Metrics struct {
	// Server serves /metrics. It is nil when Config.Address is empty.
	Server *http.Server

	// Registry is the isolated registry all metrics are registered with.
	Registry *prometheus.Registry

	// registerer adds the constant service label.
	registerer prometheus.Registerer

	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	filterLength  *prometheus.HistogramVec
}

// NewMetrics sets up a dedicated Prometheus registry, wraps all metrics with
// a constant `service` label, registers the built-in query metrics and,
// unless the address is empty, an HTTP server exposing them.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:     ":9090",
//	    ServiceName: "search-api",
//	})
//	m.IncrementQueries("documents", metrics.StatusSuccess)
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics carry service="<cfg.ServiceName>".
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		Registry:   registry,
		registerer: wrapped,
	}

	m.queriesTotal = createCounterVec(namespace, "queries_total", "Total number of executed filter queries", []string{"collection", "status"})
	m.queryDuration = createHistogramVec(namespace, "query_duration_seconds", "Duration of filter queries in seconds", []string{"collection"}, prometheus.DefBuckets)
	m.filterLength = createHistogramVec(namespace, "filter_length_bytes", "Length of rendered filter expressions in bytes", []string{"collection"}, filterLengthBuckets)

	wrapped.MustRegister(
		m.queriesTotal,
		m.queryDuration,
		m.filterLength,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
	}
	return m
}
