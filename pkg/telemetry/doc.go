// Package telemetry groups the observability packages used by querygate.
//
// # Components
//
//   - logging: structured slog logging with literal and credential redaction
//   - metrics: Prometheus counters and histograms for reads, parameter
//     validation and catalog reloads
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness endpoint with store checks and catalog details
//
// # Usage
//
//	cfg := config.MustGetConfig()
//
//	logger, err := logging.FromConfig(cfg.Telemetry.Logging, os.Stdout)
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(ctx)
//
//	gw := gateway.New(registry, store,
//		gateway.WithLogger(logger),
//		gateway.WithMetrics(collector),
//		gateway.WithTracer(tracer.Tracer()),
//	)
//
// Raw parameter values never reach logs, metric labels or span attributes;
// only resource names, parameter names, outcomes and lengths do.
package telemetry
