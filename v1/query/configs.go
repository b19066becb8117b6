package query

import "time"

// DefaultConcurrency bounds QueryAll when Config.Concurrency is not set.
const DefaultConcurrency = 4

// Config configures the query service.
type Config struct {
	// Concurrency is the maximum number of requests QueryAll runs at once.
	Concurrency int `yaml:"concurrency" envconfig:"QUERY_CONCURRENCY"`

	// Timeout bounds a single query. Zero means no timeout beyond the
	// caller's context.
	Timeout time.Duration `yaml:"timeout" envconfig:"QUERY_TIMEOUT"`
}

// DefaultConfig returns a Config with DefaultConcurrency and a 30 second
// timeout.
func DefaultConfig() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		Timeout:     30 * time.Second,
	}
}
