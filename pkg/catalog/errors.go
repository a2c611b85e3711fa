package catalog

import (
	"fmt"
	"strings"
)

// LoadError represents a failure to read the catalog file: file not found,
// permission denied, size limit or encoding problems.
type LoadError struct {
	// FilePath is the path to the catalog file
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load catalog %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load catalog %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ResourceError describes one invalid resource declaration.
type ResourceError struct {
	// Index is the position of the resource in the file (0-indexed)
	Index int

	// Resource is the declared name, empty if the name itself is missing
	Resource string

	// Field is the offending field (e.g., "properties.price")
	Field string

	// Message describes the problem
	Message string
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	name := e.Resource
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	if e.Field != "" {
		return fmt.Sprintf("resource %s: %s: %s", name, e.Field, e.Message)
	}
	return fmt.Sprintf("resource %s: %s", name, e.Message)
}

// ParseError collects every problem found while building a Snapshot.
type ParseError struct {
	// Message is set when the document itself is unreadable
	Message string

	// Cause is the underlying YAML error, if any
	Cause error

	// Resources lists per-resource validation failures
	Resources []*ResourceError
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if len(e.Resources) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("invalid catalog: %s: %v", e.Message, e.Cause)
		}
		return "invalid catalog: " + e.Message
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid catalog (%d errors):", len(e.Resources)))
	for _, re := range e.Resources {
		sb.WriteString("\n  - ")
		sb.WriteString(re.Error())
	}
	return sb.String()
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
