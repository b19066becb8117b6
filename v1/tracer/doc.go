// Package tracer sets up OpenTelemetry tracing.
//
// NewClient builds an SDK tracer provider tagged with the service name and
// deployment environment, registers it globally and, when EnableExport is
// set, batches spans to an OTLP HTTP collector configured through the
// standard OTEL_EXPORTER_OTLP_* variables.
//
//	t, err := tracer.NewClient(tracer.Config{ServiceName: "search-api"}, log)
//	if err != nil {
//	    return err
//	}
//	ctx, span := t.StartSpan(ctx, "query")
//	defer span.End()
//	t.SetAttributes(span, map[string]interface{}{"collection": "documents"})
//	if err != nil {
//	    t.RecordErrorOnSpan(span, err)
//	}
//
// GetCarrier and SetCarrierOnContext move a trace context through string
// maps such as message headers.
package tracer
