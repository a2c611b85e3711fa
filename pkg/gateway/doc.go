// Package gateway implements resource reads.
//
// A read takes one resource URI, for example
//
//	odata://catalog/books?filter=price%20gt%2010&orderby=title%20desc&top=5
//
// and runs it through a fixed pipeline:
//
//  1. the URI length cap
//  2. catalog resolution; a no-match is ErrResourceNotFound
//  3. per-request parameter validation against the resource's properties
//  4. the resource's default_top when top is absent
//  5. SQL planning
//  6. execution
//
// Every step before execution is also available through Explain. Rejected
// input is reported with the odata error types; an injection hit is
// additionally logged as a security event carrying only its category and
// the input length.
package gateway
