package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/querygate/pkg/catalog"
	"mercator-hq/querygate/pkg/odata"
	"mercator-hq/querygate/pkg/params"
	"mercator-hq/querygate/pkg/sqlbuild"
	"mercator-hq/querygate/pkg/telemetry/logging"
	"mercator-hq/querygate/pkg/telemetry/metrics"
	"mercator-hq/querygate/pkg/telemetry/tracing"
)

// TracerName names the default tracer.
const TracerName = "mercator-hq/querygate/gateway"

// DefaultMaxURILength caps a resource URI before any matching.
const DefaultMaxURILength = 8192

// ParamURI names the URI itself in a FormatError.
const ParamURI = "uri"

// ErrResourceNotFound is returned when no catalog resource matches a URI.
// A URI naming an unknown resource and one carrying an undeclared parameter
// both produce it, with nothing to tell them apart.
var ErrResourceNotFound = errors.New("resource not found")

// Resolver maps a resource URI to a catalog resource and its decoded
// parameters. *catalog.Registry and *catalog.Snapshot implement it.
type Resolver interface {
	Resolve(uri string) (*catalog.Resource, map[string]string, bool)
}

// Executor runs a planned statement. *store.Store implements it.
type Executor interface {
	Query(ctx context.Context, stmt sqlbuild.Statement) ([]map[string]any, error)
}

// Plan is a validated, not yet executed read.
type Plan struct {
	Resource  *catalog.Resource
	Params    map[string]string // decoded values exactly as matched
	Query     *params.Query
	Statement sqlbuild.Statement
}

// Result is the outcome of a read.
type Result struct {
	Resource string
	Columns  []string
	Rows     []map[string]any
}

// Gateway serves resource reads: match, validate, plan, execute.
// It is safe for concurrent use.
type Gateway struct {
	resolver     Resolver
	executor     Executor
	limits       params.Limits
	maxURILength int
	metrics      *metrics.Collector
	tracer       trace.Tracer
	logger       *logging.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLimits sets the parameter length caps.
func WithLimits(l params.Limits) Option {
	return func(g *Gateway) { g.limits = l }
}

// WithMaxURILength sets the URI length cap.
func WithMaxURILength(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxURILength = n
		}
	}
}

// WithMetrics records reads and parameter outcomes on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(g *Gateway) { g.metrics = c }
}

// WithTracer sets the tracer used for read spans.
func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) {
		if t != nil {
			g.tracer = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Gateway. executor may be nil for a gateway that only
// explains.
func New(resolver Resolver, executor Executor, opts ...Option) *Gateway {
	g := &Gateway{
		resolver:     resolver,
		executor:     executor,
		limits:       params.DefaultLimits(),
		maxURILength: DefaultMaxURILength,
		tracer:       otel.Tracer(TracerName),
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Read resolves uri, validates its parameters and runs the planned query.
// Errors are ErrResourceNotFound, one of the odata rejection types, or a
// wrapped execution error.
func (g *Gateway) Read(ctx context.Context, uri string) (*Result, error) {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "gateway.read")
	defer span.End()

	plan, err := g.plan(ctx, span, uri)
	if err == nil && g.executor == nil {
		err = errors.New("gateway: no executor configured")
	}
	var rows []map[string]any
	if err == nil {
		rows, err = g.executor.Query(ctx, plan.Statement)
		if err != nil {
			err = fmt.Errorf("failed to read %s: %w", plan.Resource.Name, err)
		}
	}

	resource := ""
	if plan != nil {
		resource = plan.Resource.Name
		ctx = logging.WithResource(ctx, resource)
	}
	outcome := classify(err)
	tracing.SetReadAttributes(span, resource, outcome)
	tracing.SetStatus(span, err)
	g.metrics.RecordRead(resource, metricsStatus(outcome), time.Since(start), len(rows))

	if err != nil {
		g.logFailure(ctx, outcome, err)
		return nil, err
	}

	tracing.SetQueryAttributes(span, plan.Resource.Table, len(rows))
	g.logger.DebugContext(ctx, "Resource read",
		"rows", len(rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Resource: resource,
		Columns:  plan.Statement.Columns,
		Rows:     rows,
	}, nil
}

// Explain runs every step of Read except execution.
func (g *Gateway) Explain(ctx context.Context, uri string) (*Plan, error) {
	ctx, span := g.tracer.Start(ctx, "gateway.explain")
	defer span.End()

	plan, err := g.plan(ctx, span, uri)
	tracing.SetStatus(span, err)
	if err != nil {
		g.logFailure(ctx, classify(err), err)
		return nil, err
	}
	return plan, nil
}

func (g *Gateway) plan(ctx context.Context, span trace.Span, uri string) (*Plan, error) {
	if len(uri) > g.maxURILength {
		return nil, odata.NewFormatError(ParamURI, fmt.Sprintf("%d bytes", len(uri)),
			fmt.Sprintf("exceeds maximum length of %d bytes", g.maxURILength))
	}

	res, values, ok := g.resolver.Resolve(uri)
	if !ok {
		g.metrics.RecordURIMatch("", false)
		return nil, ErrResourceNotFound
	}
	g.metrics.RecordURIMatch(res.Name, true)
	span.SetAttributes(attribute.String(tracing.AttrResource, res.Name))

	var opts []params.Option
	if g.metrics != nil {
		opts = append(opts, params.WithObserver(g.metrics))
	}
	v := params.New(res.Schema, g.limits, opts...)

	q, err := v.Validate(values)
	if err != nil {
		var ip *odata.InjectionPatternDetected
		if errors.As(err, &ip) {
			g.recordInjection(logging.WithResource(ctx, res.Name), span, ip, len(values[ip.Param]))
		}
		return nil, err
	}

	if q.Top == nil && res.DefaultTop > 0 {
		top := res.DefaultTop
		q.Top = &top
	}

	stmt, err := sqlbuild.Build(res.Table, res.Schema, q)
	if err != nil {
		return nil, fmt.Errorf("failed to plan %s: %w", res.Name, err)
	}

	return &Plan{
		Resource:  res,
		Params:    values,
		Query:     q,
		Statement: stmt,
	}, nil
}

// recordInjection reports a denylist hit. Only the category and the input
// length leave this function.
func (g *Gateway) recordInjection(ctx context.Context, span trace.Span, ip *odata.InjectionPatternDetected, inputLength int) {
	g.metrics.RecordInjection(ip.Category)
	tracing.AddInjectionEvent(span, ip.Category)
	g.logger.SecurityEvent(ctx, ip.Category,
		"param", ip.Param,
		"input_length", inputLength,
	)
}

func (g *Gateway) logFailure(ctx context.Context, outcome string, err error) {
	switch outcome {
	case tracing.OutcomeNotFound:
		g.logger.DebugContext(ctx, "No resource matched")
	case tracing.OutcomeRejected:
		g.logger.InfoContext(ctx, "Query rejected", "error", err)
	default:
		g.logger.ErrorContext(ctx, "Resource read failed", "error", err)
	}
}

func classify(err error) string {
	switch {
	case err == nil:
		return tracing.OutcomeSuccess
	case errors.Is(err, ErrResourceNotFound):
		return tracing.OutcomeNotFound
	case odata.IsClientError(err):
		return tracing.OutcomeRejected
	default:
		return tracing.OutcomeError
	}
}

func metricsStatus(outcome string) string {
	switch outcome {
	case tracing.OutcomeSuccess:
		return metrics.StatusSuccess
	case tracing.OutcomeNotFound:
		return metrics.StatusNotFound
	case tracing.OutcomeRejected:
		return metrics.StatusRejected
	default:
		return metrics.StatusError
	}
}
