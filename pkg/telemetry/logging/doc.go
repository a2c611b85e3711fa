// Package logging provides structured logging with redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output
//   - Redaction of quoted filter literals, bearer tokens and API keys
//   - Context fields (request_id, resource, trace_id, span_id)
//   - Security events for rejected injection attempts
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "Resource read", "rows", 12)
//
//	// Security events never carry the offending input
//	logger.SecurityEvent(ctx, "statement_terminator", "input_length", 31)
//
// # Redaction
//
// Redaction is implemented as a slog.Handler, so the *slog.Logger returned
// by Slog redacts as well:
//
//   - 'quoted literal' → '***'
//   - Bearer abc.def → Bearer ***
//   - sk-abc123 → sk-***
//   - attributes whose key mentions password, secret, token or auth → ***
package logging
