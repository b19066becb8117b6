// Package metrics exposes Prometheus metrics for filter queries.
//
// Every service gets an isolated registry whose metrics carry a constant
// service label. The built-in metrics are
//
//	vexpr_queries_total{collection,status}      counter
//	vexpr_query_duration_seconds{collection}    histogram
//	vexpr_filter_length_bytes{collection}       histogram
//
// and further metrics can be added with CreateCounter, CreateHistogram and
// CreateGauge.
//
// # Usage
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:     ":9090",
//	    ServiceName: "search-api",
//	})
//
//	start := time.Now()
//	rows, err := executor.Query(ctx, req)
//	m.RecordQueryDuration(start, req.Collection)
//	m.IncrementQueries(req.Collection, metrics.StatusSuccess)
//
// With fx, FXModule serves /metrics on Config.Address for the lifetime of
// the application. An empty address keeps the registry but starts no server.
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=vexpr
//	METRICS_SERVICE_NAME=search-api
package metrics
