package config

import (
	"math"
	"time"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultReadPath        = "/read"
	DefaultExplainPath     = "/explain"
	DefaultHealthPath      = "/health"
	DefaultTLSMinVersion   = "1.3"

	// Limits defaults
	DefaultMaxFilterLength  = 2000
	DefaultMaxSelectLength  = 1000
	DefaultMaxOrderByLength = 500
	DefaultMaxURILength     = 8192

	// Catalog defaults
	DefaultCatalogPath     = "./catalog.yaml"
	DefaultCatalogWatch    = false
	DefaultCatalogDebounce = 100 * time.Millisecond

	// Store defaults
	DefaultStoreDriver       = "sqlite"
	DefaultStoreDSN          = "data/querygate.db"
	DefaultStoreMaxOpenConns = 10
	DefaultStoreBusyTimeout  = 5 * time.Second
	DefaultStoreWALMode      = true

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultLoggingRedact      = true
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "querygate"
	DefaultScrapeTimeout      = 10 * time.Second
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingServiceName = "querygate"
	DefaultOTLPTimeout        = 10 * time.Second
)

// NewDefaultConfig returns a Config with every field at its default,
// including the boolean fields whose default is true. LoadConfig decodes
// YAML on top of it, so a file only needs to list what it changes.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Catalog: CatalogConfig{Watch: DefaultCatalogWatch},
		Store:   StoreConfig{WALMode: DefaultStoreWALMode},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Redact: DefaultLoggingRedact},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Enabled: DefaultTracingEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values.
// Booleans are left alone; see NewDefaultConfig.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.ReadPath == "" {
		cfg.Server.ReadPath = DefaultReadPath
	}
	if cfg.Server.ExplainPath == "" {
		cfg.Server.ExplainPath = DefaultExplainPath
	}
	if cfg.Server.HealthPath == "" {
		cfg.Server.HealthPath = DefaultHealthPath
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.RateLimit.RequestsPerSecond > 0 && cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = int(math.Max(1, math.Ceil(cfg.Server.RateLimit.RequestsPerSecond)))
	}

	// Limits defaults
	if cfg.Limits.MaxFilterLength == 0 {
		cfg.Limits.MaxFilterLength = DefaultMaxFilterLength
	}
	if cfg.Limits.MaxSelectLength == 0 {
		cfg.Limits.MaxSelectLength = DefaultMaxSelectLength
	}
	if cfg.Limits.MaxOrderByLength == 0 {
		cfg.Limits.MaxOrderByLength = DefaultMaxOrderByLength
	}
	if cfg.Limits.MaxURILength == 0 {
		cfg.Limits.MaxURILength = DefaultMaxURILength
	}

	// Catalog defaults
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Catalog.Debounce == 0 {
		cfg.Catalog.Debounce = DefaultCatalogDebounce
	}

	// Store defaults
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = DefaultStoreDSN
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = DefaultStoreMaxOpenConns
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = DefaultStoreBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.ScrapeTimeout == 0 {
		cfg.Telemetry.Metrics.ScrapeTimeout = DefaultScrapeTimeout
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler == DefaultTracingSampler {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
