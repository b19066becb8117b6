package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
	"github.com/Aleph-Alpha/vexpr/v1/metrics"
	"github.com/Aleph-Alpha/vexpr/v1/qdrant"
	"github.com/Aleph-Alpha/vexpr/v1/query"
	"github.com/Aleph-Alpha/vexpr/v1/tracer"
)

// appConfig is the YAML document read by the query command:
//
//	logger:
//	  level: info
//	metrics:
//	  address: ""
//	qdrant:
//	  endpoint: localhost
//	  port: 6334
//	query:
//	  timeout: 10s
type appConfig struct {
	Logger  logger.Config `yaml:"logger"`
	Metrics metrics.Config `yaml:"metrics"`
	Tracer  tracer.Config  `yaml:"tracer"`
	Qdrant  qdrant.Config  `yaml:"qdrant"`
	Query   query.Config   `yaml:"query"`
}

func defaultAppConfig() appConfig {
	m := metrics.DefaultConfig()
	// A one-shot command has nobody scraping it.
	m.Address = ""
	return appConfig{
		Logger:  logger.Config{Level: logger.Warning, ServiceName: "vexpr"},
		Metrics: m,
		Tracer:  tracer.Config{ServiceName: "vexpr"},
		Qdrant:  *qdrant.DefaultConfig(),
		Query:   query.DefaultConfig(),
	}
}

// loadConfig reads path over the defaults. An empty path keeps the
// defaults. QDRANT_API_KEY overrides the configured key.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if key, ok := os.LookupEnv("QDRANT_API_KEY"); ok {
		cfg.Qdrant.ApiKey = key
	}
	return cfg, nil
}
