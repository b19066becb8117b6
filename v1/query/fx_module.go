package query

import "go.uber.org/fx"

// FXModule provides *Service. It needs a query.Config, a vectordb.Executor
// and a logger.Logger; metrics and tracing are used when provided.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    tracer.FXModule,
//	    qdrant.FXModule,
//	    query.FXModule,
//	    fx.Supply(cfg.Logger, cfg.Metrics, cfg.Tracer, cfg.Qdrant, cfg.Query),
//	)
var FXModule = fx.Module("query",
	fx.Provide(NewService),
)
