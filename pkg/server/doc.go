// Package server provides the querygate HTTP server.
//
// # Routes
//
// Paths come from config.ServerConfig and telemetry.metrics:
//
//	GET {read_path}?uri=...     read a resource (default /read)
//	GET {explain_path}?uri=...  plan without executing (default /explain)
//	GET {health_path}           health report (default /health)
//	GET {metrics path}          Prometheus exposition (default /metrics)
//
// # Middleware
//
// Every route runs behind, outermost first: panic recovery, request ID,
// access logging, optional trace context extraction and a per-request
// deadline equal to the write timeout. See package middleware.
//
// # Lifecycle
//
//	srv := server.NewServer(&cfg.Server, gw,
//	    server.WithLogger(logger),
//	    server.WithHealth(checker),
//	    server.WithMetrics(cfg.Telemetry.Metrics.Path, collector.Handler()),
//	)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks. Cancelling ctx or calling Stop shuts the server down
// gracefully within server.shutdown_timeout.
package server
