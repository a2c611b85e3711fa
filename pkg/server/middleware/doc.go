// Package middleware provides the HTTP middleware wrapped around every
// querygate route: request IDs, access logging, panic recovery, per-client
// rate limiting and a per-request deadline.
//
// The chain, outermost first:
//
//	RecoveryMiddleware -> RequestIDMiddleware -> LoggingMiddleware -> [tracing] -> [RateLimitMiddleware] -> TimeoutMiddleware -> mux
//
// Request IDs are stored with logging.WithRequestID, so every log line
// written with a request context carries request_id. Rejected requests
// are still access-logged with status 429.
package middleware
