// Package sqlbuild turns a validated query into a SQL SELECT statement.
//
// Every identifier it emits has already passed the resource whitelist, and
// the filter fragment has been through the odata lexer, grammar validator and
// converter. Identifiers are double-quoted, including property references
// inside the filter fragment.
package sqlbuild

import (
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"mercator-hq/querygate/pkg/odata"
	"mercator-hq/querygate/pkg/params"
)

// Statement is a planned SQL statement with bound args.
type Statement struct {
	SQL     string
	Args    []interface{}
	Columns []string
}

// Build plans a SELECT over table for q. An empty select list means every
// declared property in sorted order; "*" is never emitted.
func Build(table string, props odata.PropertySet, q *params.Query) (Statement, error) {
	if !odata.IsIdentifier(table) {
		return Statement{}, fmt.Errorf("sqlbuild: invalid table name %q", table)
	}
	if q == nil {
		q = &params.Query{}
	}

	cols := q.Select
	if len(cols) == 0 {
		cols = props.Names()
	}
	if len(cols) == 0 {
		return Statement{}, fmt.Errorf("sqlbuild: no columns to select from %q", table)
	}
	quoted := make([]string, len(cols))
	for i, col := range cols {
		if !props.Has(col) {
			return Statement{}, fmt.Errorf("sqlbuild: column %q is not declared", col)
		}
		quoted[i] = QuoteIdentifier(col)
	}

	builder := sq.Select(quoted...).From(QuoteIdentifier(table))

	if q.Filter != "" {
		where, err := odata.QuoteProperties(q.Filter, QuoteIdentifier)
		if err != nil {
			return Statement{}, fmt.Errorf("sqlbuild: filter: %w", err)
		}
		builder = builder.Where(sq.Expr(where))
	}

	if len(q.OrderBy) > 0 {
		clauses := make([]string, len(q.OrderBy))
		for i, c := range q.OrderBy {
			if !props.Has(c.Property) {
				return Statement{}, fmt.Errorf("sqlbuild: order property %q is not declared", c.Property)
			}
			dir := "ASC"
			if c.Descending {
				dir = "DESC"
			}
			clauses[i] = QuoteIdentifier(c.Property) + " " + dir
		}
		builder = builder.OrderBy(clauses...)
	}

	switch {
	case q.Top != nil:
		builder = builder.Limit(uint64(*q.Top))
	case q.Skip != nil:
		// SQLite only accepts OFFSET after a LIMIT.
		builder = builder.Limit(uint64(math.MaxInt64))
	}
	if q.Skip != nil {
		builder = builder.Offset(uint64(*q.Skip))
	}

	query, args, err := builder.PlaceholderFormat(sq.Question).ToSql()
	if err != nil {
		return Statement{}, fmt.Errorf("sqlbuild: %w", err)
	}
	return Statement{SQL: query, Args: args, Columns: cols}, nil
}

// QuoteIdentifier wraps name in double quotes, doubling any embedded quote.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
