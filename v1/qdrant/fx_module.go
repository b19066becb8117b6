package qdrant

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
)

// FXModule provides a connected *QdrantClient, the *Adapter over it, and
// the adapter as vectordb.Executor. The connection is closed on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    qdrant.FXModule,
//	    fx.Supply(qdrant.FromEndpoint("localhost")),
//	)
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClient,
		NewAdapter,
		func(a *Adapter) vectordb.Executor { return a },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams groups the dependencies needed to create a client.
type QdrantParams struct {
	fx.In

	Config *Config
	Logger logger.Logger
}

// RegisterQdrantLifecycle closes the client when the application stops.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	var once sync.Once
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				client.log.Info("closing qdrant client", nil, nil)
				err = client.Close()
			})
			return err
		},
	})
}
