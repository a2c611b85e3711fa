// Package tracing provides OpenTelemetry tracing for querygate.
//
// Spans are exported over OTLP gRPC. Incoming W3C trace context
// (traceparent, tracestate) is honored through HTTPMiddleware, and every
// sampler is parent-based so upstream sampling decisions carry through.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	gw := gateway.New(registry, store, gateway.WithTracer(tracer.Tracer()))
//
// # Sampling Strategies
//
//   - always: sample every trace
//   - never: sample nothing
//   - ratio: sample sample_ratio of traces by trace ID
//
// # Attributes
//
// Read spans carry querygate.resource and querygate.outcome. Rejected filter
// input is never attached to a span; injection hits add an event carrying
// only the pattern category.
package tracing
