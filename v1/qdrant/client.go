package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding/gzip"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
)

// QdrantClient wraps the official Qdrant Go client.
type QdrantClient struct {
	api     *qdrant.Client
	cfg     *Config
	log     logger.Logger
	started bool
}

// NewQdrantClient connects to Qdrant and validates connectivity with a
// health check, so that a misconfigured endpoint fails at startup.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{
//	    Config: qdrant.FromEndpoint("localhost"),
//	    Logger: log,
//	})
func NewQdrantClient(p QdrantParams) (*QdrantClient, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	p.Logger.Info("connecting to qdrant", nil, map[string]interface{}{
		"endpoint": p.Config.Endpoint,
		"port":     p.Config.Port,
	})

	client, err := qdrant.NewClient(clientConfig(p.Config))
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to initialize client: %w", err)
	}

	qc := &QdrantClient{
		api:     client,
		cfg:     p.Config,
		log:     p.Logger,
		started: true,
	}

	if err := qc.healthCheck(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return qc, nil
}

// clientConfig maps Config onto the SDK configuration.
func clientConfig(cfg *Config) *qdrant.Config {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	out := &qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	}
	if !cfg.KeepAlive {
		out.KeepAliveTime = -1
	}
	if cfg.Compression {
		out.GrpcOptions = append(out.GrpcOptions, grpc.WithDefaultCallOptions(grpc.UseCompressor(gzip.Name)))
	}
	return out
}

// healthCheck calls the Qdrant health endpoint, bounded by ConnectTimeout.
func (c *QdrantClient) healthCheck() error {
	if !c.started || c.api == nil {
		return fmt.Errorf("qdrant: client not initialized")
	}

	timeout := c.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: health check failed: %w", err)
	}

	c.log.Info("qdrant health check passed", nil, map[string]interface{}{
		"title":    resp.GetTitle(),
		"version":  resp.GetVersion(),
		"endpoint": c.cfg.Endpoint,
	})
	return nil
}

// Client returns the underlying Qdrant SDK client.
func (c *QdrantClient) Client() *qdrant.Client {
	return c.api
}

// Close releases the gRPC connections. It is safe to call more than once.
func (c *QdrantClient) Close() error {
	if !c.started {
		return nil
	}
	c.started = false
	return c.api.Close()
}
