package catalog

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"mercator-hq/querygate/pkg/odata"
	"mercator-hq/querygate/pkg/params"
	"mercator-hq/querygate/pkg/schema"
	"mercator-hq/querygate/pkg/uritemplate"
)

// MaxFileSize bounds the catalog file read by Load.
const MaxFileSize = 1 << 20

// Resource is one readable resource: a URI template bound to a table and the
// property whitelist its queries are checked against.
type Resource struct {
	Name       string
	Template   *uritemplate.Template
	Table      string
	Schema     *schema.Schema
	DefaultTop int // 0 means no default
}

// Snapshot is an immutable, validated catalog. Readers keep the snapshot they
// obtained for the whole request, regardless of later reloads.
type Snapshot struct {
	resources []*Resource
	byName    map[string]*Resource
	version   string
	loadedAt  time.Time
}

type fileCatalog struct {
	Resources []fileResource `yaml:"resources"`
}

type fileResource struct {
	Name       string            `yaml:"name"`
	Template   string            `yaml:"template"`
	Table      string            `yaml:"table"`
	Properties map[string]string `yaml:"properties"`
	DefaultTop int               `yaml:"default_top"`
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}
	if info.Size() > MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	return Parse(data)
}

// Parse builds a Snapshot from YAML catalog data. Unknown fields are
// rejected. All resource problems are reported together.
func Parse(data []byte) (*Snapshot, error) {
	var fc fileCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, &ParseError{Message: "YAML parsing failed", Cause: err}
	}
	if len(fc.Resources) == 0 {
		return nil, &ParseError{Message: "no resources declared"}
	}

	snap := &Snapshot{
		resources: make([]*Resource, 0, len(fc.Resources)),
		byName:    make(map[string]*Resource, len(fc.Resources)),
		version:   version(data),
		loadedAt:  time.Now(),
	}

	perr := &ParseError{}
	for i, fr := range fc.Resources {
		res, errs := buildResource(i, fr)
		if len(errs) > 0 {
			perr.Resources = append(perr.Resources, errs...)
			continue
		}
		if _, dup := snap.byName[res.Name]; dup {
			perr.Resources = append(perr.Resources, &ResourceError{
				Index: i, Resource: res.Name, Field: "name", Message: "duplicate resource name",
			})
			continue
		}
		snap.byName[res.Name] = res
		snap.resources = append(snap.resources, res)
	}
	if len(perr.Resources) > 0 {
		return nil, perr
	}
	return snap, nil
}

func buildResource(i int, fr fileResource) (*Resource, []*ResourceError) {
	var errs []*ResourceError
	fail := func(field, msg string) {
		errs = append(errs, &ResourceError{Index: i, Resource: fr.Name, Field: field, Message: msg})
	}

	if fr.Name == "" {
		fail("name", "is required")
	}

	tmpl, err := uritemplate.Parse(fr.Template)
	if err != nil {
		fail("template", err.Error())
	} else {
		for _, name := range tmpl.Names() {
			if !slices.Contains(params.Names, name) {
				fail("template", fmt.Sprintf("parameter %q is not one of %s", name, strings.Join(params.Names, ", ")))
			}
		}
	}

	if !odata.IsIdentifier(fr.Table) {
		fail("table", fmt.Sprintf("%q is not a valid identifier", fr.Table))
	}

	if fr.DefaultTop != 0 && (fr.DefaultTop < params.MinTop || fr.DefaultTop > params.MaxTop) {
		fail("default_top", fmt.Sprintf("must be between %d and %d", params.MinTop, params.MaxTop))
	}

	var sch *schema.Schema
	if len(fr.Properties) == 0 {
		fail("properties", "at least one property is required")
	} else {
		types := make(map[string]schema.Type, len(fr.Properties))
		for name, typ := range fr.Properties {
			types[name] = schema.Type(typ)
		}
		sch, err = schema.New(types)
		if err != nil {
			fail("properties", err.Error())
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Resource{
		Name:       fr.Name,
		Template:   tmpl,
		Table:      fr.Table,
		Schema:     sch,
		DefaultTop: fr.DefaultTop,
	}, nil
}

// Resources returns the resources in declaration order.
func (s *Snapshot) Resources() []*Resource {
	out := make([]*Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Get returns the resource with the given name.
func (s *Snapshot) Get(name string) (*Resource, bool) {
	r, ok := s.byName[name]
	return r, ok
}

// Len returns the number of resources.
func (s *Snapshot) Len() int {
	return len(s.resources)
}

// Version identifies the catalog content the snapshot was built from.
func (s *Snapshot) Version() string {
	return s.version
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Resolve tries each resource in declaration order and returns the first
// whose template matches uri, with the decoded parameters.
func (s *Snapshot) Resolve(uri string) (*Resource, map[string]string, bool) {
	for _, r := range s.resources {
		if values, ok := r.Template.Match(uri); ok {
			return r, values, true
		}
	}
	return nil, nil, false
}

func version(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}
