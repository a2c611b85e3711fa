// Package params validates OData-style query parameters.
//
// # Parameters
//
//   - top: integer in [1, 1000]
//   - skip: integer >= 0
//   - select: comma-separated declared columns
//   - orderby: comma-separated "<property> [asc|desc]" clauses
//   - filter: boolean expression compiled by package odata
//
// Every check is all-or-nothing: Validate returns a complete Query or an
// error, never a partially filled Query. Length caps run before any pattern
// matching, and every pattern is evaluated by a linear-time engine.
//
// # Basic Usage
//
//	v := params.New(resourceSchema, params.DefaultLimits())
//	q, err := v.Validate(map[string]string{
//	    "filter":  "price gt 10",
//	    "orderby": "title desc",
//	    "top":     "50",
//	})
//	if err != nil {
//	    return err // *odata.FormatError, *odata.WhitelistViolation, ...
//	}
//	// q.Filter == "price > 10"
//
// Values passed to Validate must already be percent-decoded exactly once,
// which is what uritemplate.Template.Match returns. ValidateEncoded decodes
// raw values first.
package params
