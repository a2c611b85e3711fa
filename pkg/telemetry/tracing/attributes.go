package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. Custom keys use the "querygate." namespace; the database
// keys follow OpenTelemetry semantic conventions.
const (
	AttrResource  = "querygate.resource"
	AttrOutcome   = "querygate.outcome"
	AttrRequestID = "querygate.request_id"
	AttrRows      = "querygate.rows"
	AttrCategory  = "querygate.injection.category"

	AttrDBSystem = "db.system"
	AttrDBTable  = "db.sql.table"
)

// Outcome attribute values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// SetReadAttributes sets the resource and outcome of a read on span.
func SetReadAttributes(span trace.Span, resource, outcome string) {
	attrs := []attribute.KeyValue{attribute.String(AttrOutcome, outcome)}
	if resource != "" {
		attrs = append(attrs, attribute.String(AttrResource, resource))
	}
	span.SetAttributes(attrs...)
}

// SetQueryAttributes records the table queried and the rows returned.
func SetQueryAttributes(span trace.Span, table string, rows int) {
	span.SetAttributes(
		attribute.String(AttrDBSystem, "sqlite"),
		attribute.String(AttrDBTable, table),
		attribute.Int(AttrRows, rows),
	)
}

// AddInjectionEvent marks a denylist hit on span. Only the category is
// recorded.
func AddInjectionEvent(span trace.Span, category string) {
	span.AddEvent("injection_detected", trace.WithAttributes(attribute.String(AttrCategory, category)))
}
