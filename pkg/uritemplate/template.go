// Package uritemplate matches resource URIs against templates of the form
//
//	scheme://service/resource{?p1,p2,...}
//
// The scheme and service may be omitted, as in "entity{?filter}". The path
// part is literal. The optional {?...} expression declares the query
// parameters a URI may carry. Matching is exact and case-sensitive, and it
// never returns an error: a candidate either matches or it does not.
package uritemplate

import (
	"fmt"
	"strings"

	"mercator-hq/querygate/pkg/odata"
)

// Template is a parsed URI template. It is immutable once parsed.
type Template struct {
	raw      string
	segments []string
	names    []string
	declared map[string]bool
}

// Parse parses a template string. The query expression, when present, must
// close the template and list unique identifier names.
func Parse(raw string) (*Template, error) {
	if raw == "" {
		return nil, fmt.Errorf("uritemplate: empty template")
	}

	path := raw
	var names []string
	if i := strings.Index(raw, "{"); i >= 0 {
		expr := raw[i:]
		path = raw[:i]
		if !strings.HasPrefix(expr, "{?") || !strings.HasSuffix(expr, "}") || strings.Count(expr, "}") != 1 {
			return nil, fmt.Errorf("uritemplate: %q: query expression must be a trailing {?name,...}", raw)
		}
		body := expr[2 : len(expr)-1]
		if body == "" {
			return nil, fmt.Errorf("uritemplate: %q: empty query expression", raw)
		}
		names = strings.Split(body, ",")
	}

	if path == "" {
		return nil, fmt.Errorf("uritemplate: %q: empty path", raw)
	}
	if strings.ContainsAny(path, "?#}") {
		return nil, fmt.Errorf("uritemplate: %q: unexpected character in path", raw)
	}

	t := &Template{
		raw:      raw,
		segments: strings.Split(path, "/"),
		names:    make([]string, 0, len(names)),
		declared: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if !odata.IsIdentifier(name) {
			return nil, fmt.Errorf("uritemplate: %q: invalid parameter name %q", raw, name)
		}
		if t.declared[name] {
			return nil, fmt.Errorf("uritemplate: %q: duplicate parameter %q", raw, name)
		}
		t.declared[name] = true
		t.names = append(t.names, name)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template as written.
func (t *Template) String() string {
	return t.raw
}

// Names returns the declared parameter names in declaration order.
func (t *Template) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
