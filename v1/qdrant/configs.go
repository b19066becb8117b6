package qdrant

import (
	"errors"
	"fmt"
	"time"
)

// DefaultPort is the gRPC port of a Qdrant server.
const DefaultPort = 6334

// Config holds the connection settings of the query backend. Collections
// are chosen per request, so there is no default collection here.
//
//	cfg := qdrant.FromEndpoint("qdrant.internal").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Endpoint is the server host name, without scheme or port.
	Endpoint string `yaml:"endpoint" envconfig:"QDRANT_ENDPOINT"`

	// Port is the gRPC port. Zero means DefaultPort.
	Port int `yaml:"port" envconfig:"QDRANT_PORT"`

	ApiKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`
	UseTLS bool   `yaml:"use_tls" envconfig:"QDRANT_USE_TLS"`

	// Timeout is sent with every query as the server-side limit, rounded up
	// to whole seconds. Zero leaves it to the server.
	Timeout time.Duration `yaml:"timeout" envconfig:"QDRANT_TIMEOUT"`

	// ConnectTimeout bounds the startup health check.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"QDRANT_CONNECT_TIMEOUT"`

	// KeepAlive pings idle gRPC connections. Off, the SDK keepalive is
	// disabled entirely.
	KeepAlive bool `yaml:"keep_alive" envconfig:"QDRANT_KEEP_ALIVE"`

	// Compression gzips request and response messages.
	Compression bool `yaml:"compression" envconfig:"QDRANT_COMPRESSION"`

	// CheckCompatibility compares client and server versions on connect and
	// logs a warning on mismatch.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig targets a local server.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               DefaultPort,
		Timeout:            5 * time.Second,
		ConnectTimeout:     5 * time.Second,
		KeepAlive:          true,
		CheckCompatibility: true,
	}
}

// FromEndpoint is DefaultConfig with another host.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is empty"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Timeout < 0 || c.ConnectTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("qdrant: invalid config: %w", err)
	}
	return nil
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithTLS(enabled bool) *Config {
	c.UseTLS = enabled
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

func (c *Config) WithKeepAlive(enabled bool) *Config {
	c.KeepAlive = enabled
	return c
}

func (c *Config) WithCompression(enabled bool) *Config {
	c.Compression = enabled
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}
