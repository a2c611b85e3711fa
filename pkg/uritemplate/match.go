package uritemplate

import (
	"net/url"
	"strings"
)

// Match reports whether uri matches the template. On a match it returns the
// decoded query parameters that were present, and nothing else: absent
// parameters are not defaulted. Names and values are percent-decoded exactly
// once.
//
// A candidate is rejected when its path differs, when it carries a fragment,
// when its query is malformed (empty pair, pair without '=', empty name), or
// when a name is undeclared or repeated.
func (t *Template) Match(uri string) (map[string]string, bool) {
	if strings.Contains(uri, "#") {
		return nil, false
	}

	path, query, _ := strings.Cut(uri, "?")
	if !t.matchPath(path) {
		return nil, false
	}

	params := make(map[string]string)
	if query == "" {
		return params, true
	}
	if len(t.names) == 0 {
		return nil, false
	}

	for _, pair := range strings.Split(query, "&") {
		rawName, rawValue, ok := strings.Cut(pair, "=")
		if !ok || rawName == "" {
			return nil, false
		}
		name, err := url.PathUnescape(rawName)
		if err != nil || name == "" {
			return nil, false
		}
		if !t.declared[name] {
			return nil, false
		}
		if _, dup := params[name]; dup {
			return nil, false
		}
		value, err := url.PathUnescape(rawValue)
		if err != nil {
			return nil, false
		}
		params[name] = value
	}
	return params, true
}

func (t *Template) matchPath(path string) bool {
	segments := strings.Split(path, "/")
	if len(segments) != len(t.segments) {
		return false
	}
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil || decoded != t.segments[i] {
			return false
		}
	}
	return true
}
