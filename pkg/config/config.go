package config

import "time"

// Config is the root configuration structure for querygate.
// It contains the HTTP server, parameter limits, resource catalog, backing
// store and telemetry settings.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts and route paths.
	Server ServerConfig `yaml:"server"`

	// Limits contains the length caps applied to query parameters before any
	// pattern matching.
	Limits LimitsConfig `yaml:"limits"`

	// Catalog contains the location of the resource catalog and its reload
	// settings.
	Catalog CatalogConfig `yaml:"catalog"`

	// Store contains the SQLite database configuration.
	Store StoreConfig `yaml:"store"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes is the maximum size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ReadPath is the route serving resource reads.
	// Default: "/read"
	ReadPath string `yaml:"read_path"`

	// ExplainPath is the route returning the validated query and SQL
	// without executing it.
	// Default: "/explain"
	ExplainPath string `yaml:"explain_path"`

	// HealthPath is the liveness route.
	// Default: "/health"
	HealthPath string `yaml:"health_path"`

	// TLS contains listener TLS configuration.
	TLS TLSConfig `yaml:"tls"`

	// RateLimit caps requests per client address.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// TLSConfig contains TLS configuration for the listener.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept ("1.2" or "1.3").
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// ClientCAFile, when set, requires client certificates signed by
	// one of the CAs in this PEM file.
	ClientCAFile string `yaml:"client_ca_file"`
}

// RateLimitConfig contains per-client rate limiting configuration.
// Clients are keyed by remote IP address.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client. Zero disables
	// rate limiting.
	// Default: 0
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests a client may make at once.
	// Default: RequestsPerSecond rounded up, at least 1
	Burst int `yaml:"burst"`
}

// LimitsConfig contains length caps for query parameters. Caps apply to
// decoded values.
type LimitsConfig struct {
	// MaxFilterLength caps the filter expression.
	// Default: 2000
	MaxFilterLength int `yaml:"max_filter_length"`

	// MaxSelectLength caps the select list.
	// Default: 1000
	MaxSelectLength int `yaml:"max_select_length"`

	// MaxOrderByLength caps the orderby list.
	// Default: 500
	MaxOrderByLength int `yaml:"max_orderby_length"`

	// MaxURILength caps the whole resource URI before matching.
	// Default: 8192
	MaxURILength int `yaml:"max_uri_length"`
}

// CatalogConfig contains resource catalog configuration.
type CatalogConfig struct {
	// Path is the catalog YAML file.
	// Default: "./catalog.yaml"
	Path string `yaml:"path"`

	// Watch reloads the catalog when the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period before a change triggers a reload.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// StoreConfig contains SQLite store configuration.
type StoreConfig struct {
	// Driver selects the SQLite driver.
	// Options: "sqlite" (modernc.org/sqlite), "sqlite3" (mattn/go-sqlite3)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// DSN is the database path or DSN.
	// Default: "data/querygate.db"
	DSN string `yaml:"dsn"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is how long to wait for database locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact scrubs quoted literals, bearer tokens and API keys from logs.
	// Default: true
	Redact bool `yaml:"redact"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "querygate"
	Namespace string `yaml:"namespace"`

	// ScrapeTimeout bounds how long one scrape may take to gather metrics.
	// Default: 10s
	ScrapeTimeout time.Duration `yaml:"scrape_timeout"`

	// MaxScrapesInFlight caps concurrent scrapes; extra scrapes get 503.
	// Zero means no cap.
	// Default: 0
	MaxScrapesInFlight int `yaml:"max_scrapes_in_flight"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "querygate"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the export timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
