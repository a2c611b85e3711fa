package metrics

import (
	"sync"
	"time"

	"mercator-hq/querygate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Status and result label values.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusNotFound = "not_found"
	StatusError    = "error"

	ResultMatched = "matched"
	ResultNoMatch = "no_match"

	ReloadSuccess = "success"
	ReloadFailure = "failure"

	// OtherResource replaces resource labels past the cardinality limit.
	OtherResource = "other"
)

// DefaultMaxCardinality bounds distinct resource label values. Catalog
// reloads can introduce new names over the life of the process.
const DefaultMaxCardinality = 1000

// Collector owns every querygate metric and the private registry they are
// registered on. A nil Collector, or one built with Enabled false, records
// nothing, so callers never need to check.
//
// Collector implements params.Observer.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	queryMetrics   *QueryMetrics
	readMetrics    *ReadMetrics
	catalogMetrics *CatalogMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector. If registry is nil a new private
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "querygate"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		queryMetrics:       NewQueryMetrics(cfg, registry),
		readMetrics:        NewReadMetrics(cfg, registry),
		catalogMetrics:     NewCatalogMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(DefaultMaxCardinality),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// ObserveParam records one parameter validation outcome.
func (c *Collector) ObserveParam(param, outcome string) {
	if !c.enabled() {
		return
	}
	c.queryMetrics.RecordValidation(param, outcome)
}

// RecordInjection records a denylist hit. category names the pattern, never
// the input.
func (c *Collector) RecordInjection(category string) {
	if !c.enabled() {
		return
	}
	c.queryMetrics.RecordInjection(category)
}

// RecordURIMatch records a catalog resolution. resource is empty on a
// no-match.
func (c *Collector) RecordURIMatch(resource string, matched bool) {
	if !c.enabled() {
		return
	}
	result := ResultMatched
	if !matched {
		result = ResultNoMatch
	}
	c.readMetrics.RecordMatch(c.resourceLabel(resource), result)
}

// RecordRead records a completed read.
//
// Parameters:
//   - resource: catalog resource name, empty when the URI did not resolve
//   - status: StatusSuccess, StatusRejected, StatusNotFound or StatusError
//   - duration: time from receipt to result
//   - rows: rows returned, ignored unless status is StatusSuccess
func (c *Collector) RecordRead(resource, status string, duration time.Duration, rows int) {
	if !c.enabled() {
		return
	}
	c.readMetrics.RecordRead(c.resourceLabel(resource), status, duration, rows)
}

// RecordCatalogReload records a reload attempt; err is the attempt's result.
func (c *Collector) RecordCatalogReload(err error) {
	if !c.enabled() {
		return
	}
	if err != nil {
		c.catalogMetrics.RecordReload(ReloadFailure)
		return
	}
	c.catalogMetrics.RecordReload(ReloadSuccess)
}

// SetCatalogResources sets the active resource count.
func (c *Collector) SetCatalogResources(n int) {
	if !c.enabled() {
		return
	}
	c.catalogMetrics.SetResources(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) resourceLabel(resource string) string {
	if resource == "" {
		return "none"
	}
	if !c.cardinalityLimiter.Allow(resource) {
		return OtherResource
	}
	return resource
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or fits under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
