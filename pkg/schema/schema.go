// Package schema holds the per-resource property whitelist.
//
// A Schema is an immutable snapshot: New copies its input and no method
// mutates it afterwards, so a Schema can back any number of concurrent
// validators without coordination.
package schema

import (
	"fmt"
	"sort"

	"mercator-hq/querygate/pkg/odata"
)

// Type is the declared type of a property.
type Type string

const (
	TypeString   Type = "string"
	TypeInteger  Type = "integer"
	TypeNumber   Type = "number"
	TypeBoolean  Type = "boolean"
	TypeDateTime Type = "datetime"
)

// ValidTypes lists every accepted property type.
var ValidTypes = map[Type]bool{
	TypeString:   true,
	TypeInteger:  true,
	TypeNumber:   true,
	TypeBoolean:  true,
	TypeDateTime: true,
}

// Schema maps property names to declared types.
type Schema struct {
	types map[string]Type
	names []string
}

// New builds a Schema from props. Every name must be a plain identifier and
// every type one of ValidTypes.
func New(props map[string]Type) (*Schema, error) {
	s := &Schema{
		types: make(map[string]Type, len(props)),
		names: make([]string, 0, len(props)),
	}
	for name, typ := range props {
		if !odata.IsIdentifier(name) {
			return nil, fmt.Errorf("invalid property name %q: must match [A-Za-z_][A-Za-z0-9_]*", name)
		}
		if !ValidTypes[typ] {
			return nil, fmt.Errorf("property %q has unknown type %q", name, typ)
		}
		s.types[name] = typ
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// MustNew is like New but panics on error. Intended for tests and static tables.
func MustNew(props map[string]Type) *Schema {
	s, err := New(props)
	if err != nil {
		panic(err)
	}
	return s
}

// Has reports whether name is declared. The comparison is exact and
// case-sensitive.
func (s *Schema) Has(name string) bool {
	_, ok := s.types[name]
	return ok
}

// Type returns the declared type of name.
func (s *Schema) Type(name string) (Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Names returns the declared names in sorted order. The slice is a copy.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of declared properties.
func (s *Schema) Len() int {
	return len(s.names)
}
