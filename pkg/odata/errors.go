package odata

import (
	"errors"
	"fmt"
	"strings"
)

// Parameter names used in error values.
const (
	ParamFilter  = "filter"
	ParamSelect  = "select"
	ParamOrderBy = "orderby"
	ParamTop     = "top"
	ParamSkip    = "skip"
)

// InjectionMessage is the only text an InjectionPatternDetected error ever
// renders. The matched input is never reflected.
const InjectionMessage = "forbidden patterns detected"

// maxEchoLen bounds how much of a rejected value a FormatError message quotes.
const maxEchoLen = 64

// FormatError reports a parameter whose literal fails a shape or bounds check.
type FormatError struct {
	Param  string // parameter name, e.g. "top"
	Value  string // rejected value as received
	Reason string // what the value should have looked like
	Err    error  // underlying cause, if any
}

// NewFormatError creates a FormatError.
func NewFormatError(param, value, reason string) *FormatError {
	return &FormatError{Param: param, Value: value, Reason: reason}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %q)", e.Param, e.Reason, truncate(e.Value, maxEchoLen))
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// WhitelistViolation reports a reference to a property, operator, or keyword
// outside the declared vocabulary. Allowed enumerates the legal set.
type WhitelistViolation struct {
	Param      string
	Kind       string // "property", "operator", "logical", "column"
	Token      string
	Allowed    []string
	Suggestion string
}

// NewWhitelistViolation creates a WhitelistViolation and computes a spelling
// suggestion from allowed.
func NewWhitelistViolation(param, kind, token string, allowed []string) *WhitelistViolation {
	return &WhitelistViolation{
		Param:      param,
		Kind:       kind,
		Token:      token,
		Allowed:    allowed,
		Suggestion: Suggest(token, allowed),
	}
}

func (e *WhitelistViolation) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s %q is not allowed; allowed: %s",
		e.Param, e.Kind, truncate(e.Token, maxEchoLen), strings.Join(e.Allowed, ", "))
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (%s)", e.Suggestion)
	}
	return sb.String()
}

// InjectionPatternDetected reports a denylist hit on the decoded input. Its
// message is fixed; Category is for logs and metrics only.
type InjectionPatternDetected struct {
	Param    string
	Category string
}

func (e *InjectionPatternDetected) Error() string {
	return InjectionMessage
}

// IsClientError reports whether err is one of the three rejection kinds,
// i.e. the caller sent a bad parameter rather than the server failing.
func IsClientError(err error) bool {
	var fe *FormatError
	var wv *WhitelistViolation
	var ip *InjectionPatternDetected
	return errors.As(err, &fe) || errors.As(err, &wv) || errors.As(err, &ip)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
