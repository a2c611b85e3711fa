// Package metrics provides Prometheus metrics for querygate.
//
// All metrics live on a private registry owned by the Collector and are
// exposed through Collector.Handler.
//
// # Metrics
//
//   - querygate_param_validations_total{param,outcome}
//   - querygate_injection_detections_total{category}
//   - querygate_uri_matches_total{resource,result}
//   - querygate_reads_total{resource,status}
//   - querygate_read_duration_seconds{resource}
//   - querygate_read_rows{resource}
//   - querygate_catalog_reloads_total{result}
//   - querygate_catalog_resources
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	// Per-parameter outcomes come from the params package
//	v := params.New(resource.Schema, limits, params.WithObserver(collector))
//
//	collector.RecordRead("books", metrics.StatusSuccess, elapsed, len(rows))
//
// # Cardinality Management
//
// Resource names come from the catalog, which can change on reload. At most
// DefaultMaxCardinality distinct names are tracked; further names are
// recorded as "other". Injection categories never include request input.
package metrics
