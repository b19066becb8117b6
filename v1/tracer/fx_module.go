package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vexpr/v1/logger"
)

// FXModule provides *Tracer and shuts the provider down on stop. It needs a
// tracer.Config and a logger.Logger.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle flushes and stops the tracer provider on shutdown.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer", nil)
			return tracer.Shutdown(ctx)
		},
	})
}
