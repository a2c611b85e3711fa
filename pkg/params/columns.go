package params

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/querygate/pkg/odata"
)

// Both patterns are anchored and compiled by Go's RE2 engine, which matches
// in time linear in the input. Length caps are applied before either runs.
var (
	selectShape = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_,\s]*$`)

	orderClause = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\s+((?i:asc|desc)))?$`)
)

// OrderClause is one validated sort key.
type OrderClause struct {
	Property   string
	Descending bool
}

// String renders the clause in canonical "<property> asc|desc" form.
func (c OrderClause) String() string {
	if c.Descending {
		return c.Property + " desc"
	}
	return c.Property + " asc"
}

// Select validates a comma-separated column list. Every column must be a
// declared property; duplicates are dropped, first occurrence wins.
func (v *Validator) Select(value string) ([]string, error) {
	if len(value) > v.limits.MaxSelectLength {
		return nil, tooLong(odata.ParamSelect, value, v.limits.MaxSelectLength)
	}
	if !selectShape.MatchString(value) {
		return nil, odata.NewFormatError(odata.ParamSelect, value, "must be a comma-separated list of identifiers")
	}

	parts := strings.Split(value, ",")
	cols := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		col := strings.TrimSpace(part)
		if col == "" {
			return nil, odata.NewFormatError(odata.ParamSelect, value, "empty column name")
		}
		if !odata.IsIdentifier(col) {
			return nil, odata.NewFormatError(odata.ParamSelect, value, "column names must be separated by commas")
		}
		if !v.props.Has(col) {
			return nil, odata.NewWhitelistViolation(odata.ParamSelect, "column", col, v.props.Names())
		}
		if seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols, nil
}

// OrderBy validates a comma-separated list of "<property> [asc|desc]"
// clauses. The direction keyword is case-insensitive; the property is not.
func (v *Validator) OrderBy(value string) ([]OrderClause, error) {
	if len(value) > v.limits.MaxOrderByLength {
		return nil, tooLong(odata.ParamOrderBy, value, v.limits.MaxOrderByLength)
	}
	if strings.TrimSpace(value) == "" {
		return nil, odata.NewFormatError(odata.ParamOrderBy, value, "must not be empty")
	}

	parts := strings.Split(value, ",")
	clauses := make([]OrderClause, 0, len(parts))
	for _, part := range parts {
		m := orderClause.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, odata.NewFormatError(odata.ParamOrderBy, value, "each clause must be '<property> [asc|desc]'")
		}
		if !v.props.Has(m[1]) {
			return nil, odata.NewWhitelistViolation(odata.ParamOrderBy, "property", m[1], v.props.Names())
		}
		clauses = append(clauses, OrderClause{
			Property:   m[1],
			Descending: strings.EqualFold(m[2], "desc"),
		})
	}
	return clauses, nil
}

func tooLong(param, value string, limit int) *odata.FormatError {
	return odata.NewFormatError(param, value, fmt.Sprintf("exceeds maximum length of %d", limit))
}
