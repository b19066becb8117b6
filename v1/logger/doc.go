// Package logger provides structured logging on top of Uber's zap.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Logger interface: the contract consumed by the rest of the module
//   - LoggerClient struct: the zap-backed implementation
//   - FXModule: provides both *LoggerClient and Logger for dependency injection
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:         logger.Info,
//	    ServiceName:   "vexpr",
//	    EnableTracing: true,
//	})
//
//	log.Info("Query executed", nil, map[string]interface{}{
//	    "collection": "documents",
//	})
//
//	// With a span in ctx, trace_id and span_id are attached.
//	log.ErrorWithContext(ctx, "Query failed", err, nil)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=vexpr       # value of the "service" field
//	LOGGER_ENABLE_TRACING=true      # trace and span IDs in *WithContext entries
//
// Entries are JSON encoded to stderr with ISO8601 timestamps, the process ID
// and the service name.
//
// All methods are safe for concurrent use.
package logger
