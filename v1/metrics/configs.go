package metrics

// DefaultMetricsAddress is the listen address used by DefaultConfig.
const DefaultMetricsAddress = ":9090"

// DefaultNamespace prefixes the built-in metric names.
const DefaultNamespace = "vexpr"

// Config defines the configuration structure for the Prometheus metrics server.
type Config struct {
	// Address determines the network address where the Prometheus
	// metrics HTTP server listens, e.g. ":9090" or "127.0.0.1:9100".
	// An empty address disables the HTTP server; metrics are still recorded
	// in the registry.
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes the built-in metrics. Default: "vexpr", which gives
	// e.g. vexpr_queries_total.
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// DefaultConfig returns a configuration serving on DefaultMetricsAddress
// with the default collectors enabled.
func DefaultConfig() Config {
	return Config{
		Address:                 DefaultMetricsAddress,
		EnableDefaultCollectors: true,
		Namespace:               DefaultNamespace,
		ServiceName:             "vexpr",
	}
}
