package params

import (
	"errors"
	"net/url"
	"strings"

	"mercator-hq/querygate/pkg/odata"
)

const (
	// DefaultMaxFilterLength caps a decoded filter before any scanning.
	DefaultMaxFilterLength = 2000

	// DefaultMaxSelectLength caps a decoded select list.
	DefaultMaxSelectLength = 1000

	// DefaultMaxOrderByLength caps a decoded orderby list.
	DefaultMaxOrderByLength = 500
)

// Names lists the parameters this package validates, in validation order.
var Names = []string{
	odata.ParamFilter,
	odata.ParamSelect,
	odata.ParamOrderBy,
	odata.ParamTop,
	odata.ParamSkip,
}

// Outcome labels reported to an Observer.
const (
	OutcomeOK        = "ok"
	OutcomeFormat    = "format_error"
	OutcomeWhitelist = "whitelist_violation"
	OutcomeInjection = "injection"
	OutcomeOther     = "error"
)

// Limits holds the length caps applied before pattern matching.
type Limits struct {
	MaxFilterLength  int
	MaxSelectLength  int
	MaxOrderByLength int
}

// DefaultLimits returns the built-in caps.
func DefaultLimits() Limits {
	return Limits{
		MaxFilterLength:  DefaultMaxFilterLength,
		MaxSelectLength:  DefaultMaxSelectLength,
		MaxOrderByLength: DefaultMaxOrderByLength,
	}
}

// withDefaults fills zero caps from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxFilterLength <= 0 {
		l.MaxFilterLength = d.MaxFilterLength
	}
	if l.MaxSelectLength <= 0 {
		l.MaxSelectLength = d.MaxSelectLength
	}
	if l.MaxOrderByLength <= 0 {
		l.MaxOrderByLength = d.MaxOrderByLength
	}
	return l
}

// Observer receives one call per validated parameter.
type Observer interface {
	ObserveParam(param, outcome string)
}

// Query is the validated, converted form of a request's query parameters.
// Absent parameters stay at their zero value; nothing is defaulted here.
type Query struct {
	Filter  string        // converted predicate fragment, "" when absent
	Select  []string      // declared columns, in request order without duplicates
	OrderBy []OrderClause // sort clauses, in request order
	Top     *int
	Skip    *int
}

// Validator checks query parameters against one resource's whitelist.
// Build one per request; it keeps only an immutable reference to the
// whitelist and is safe for concurrent use.
type Validator struct {
	props    odata.PropertySet
	limits   Limits
	filter   *odata.Validator
	observer Observer
}

// Option configures a Validator.
type Option func(*Validator)

// WithObserver reports every parameter outcome to o.
func WithObserver(o Observer) Option {
	return func(v *Validator) {
		v.observer = o
	}
}

// New creates a Validator for props.
func New(props odata.PropertySet, limits Limits, opts ...Option) *Validator {
	v := &Validator{
		props:  props,
		limits: limits.withDefaults(),
		filter: odata.NewValidator(props),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Filter validates and converts a decoded filter expression.
func (v *Validator) Filter(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", odata.NewFormatError(odata.ParamFilter, value, "must not be empty")
	}
	if len(value) > v.limits.MaxFilterLength {
		return "", tooLong(odata.ParamFilter, value, v.limits.MaxFilterLength)
	}
	return v.filter.Compile(value)
}

// Validate checks every entry of values, which must already be decoded.
// It returns the complete Query or the first error; an unknown parameter
// name is a WhitelistViolation.
func (v *Validator) Validate(values map[string]string) (*Query, error) {
	for name := range values {
		if !isKnown(name) {
			return nil, odata.NewWhitelistViolation("query", "parameter", name, Names)
		}
	}

	q := &Query{}
	for _, name := range Names {
		value, ok := values[name]
		if !ok {
			continue
		}
		err := v.apply(q, name, value)
		v.observe(name, err)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// ValidateEncoded percent-decodes each value once and then validates.
// Use it when the values have not already been decoded by a matcher.
func (v *Validator) ValidateEncoded(raw map[string]string) (*Query, error) {
	decoded := make(map[string]string, len(raw))
	for name, value := range raw {
		d, err := Decode(name, value)
		if err != nil {
			v.observe(name, err)
			return nil, err
		}
		decoded[name] = d
	}
	return v.Validate(decoded)
}

func (v *Validator) apply(q *Query, name, value string) error {
	switch name {
	case odata.ParamFilter:
		f, err := v.Filter(value)
		if err != nil {
			return err
		}
		q.Filter = f
	case odata.ParamSelect:
		cols, err := v.Select(value)
		if err != nil {
			return err
		}
		q.Select = cols
	case odata.ParamOrderBy:
		clauses, err := v.OrderBy(value)
		if err != nil {
			return err
		}
		q.OrderBy = clauses
	case odata.ParamTop:
		n, err := v.Top(value)
		if err != nil {
			return err
		}
		q.Top = &n
	case odata.ParamSkip:
		n, err := v.Skip(value)
		if err != nil {
			return err
		}
		q.Skip = &n
	}
	return nil
}

func (v *Validator) observe(param string, err error) {
	if v.observer != nil {
		v.observer.ObserveParam(param, Outcome(err))
	}
}

// Decode percent-decodes a raw parameter value. '+' is left as is.
func Decode(param, raw string) (string, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		fe := odata.NewFormatError(param, raw, "invalid percent-encoding")
		fe.Err = err
		return "", fe
	}
	return decoded, nil
}

// Outcome classifies err into one of the Outcome labels.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var fe *odata.FormatError
	var wv *odata.WhitelistViolation
	var ip *odata.InjectionPatternDetected
	switch {
	case errors.As(err, &ip):
		return OutcomeInjection
	case errors.As(err, &wv):
		return OutcomeWhitelist
	case errors.As(err, &fe):
		return OutcomeFormat
	default:
		return OutcomeOther
	}
}

func isKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
