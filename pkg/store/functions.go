package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
)

// mattnDriverName is the database/sql name of the mattn driver with the
// filter functions installed on every connection.
const mattnDriverName = "sqlite3_querygate"

// scalarFunc is a SQL scalar function over already-decoded argument values.
// It returns nil for SQL NULL.
type scalarFunc struct {
	name  string
	nArgs int
	fn    func(args []any) any
}

// filterFunctions are the odata function names that SQLite lacks natively.
// length and trim are built into SQLite and need no registration.
var filterFunctions = []scalarFunc{
	{name: "contains", nArgs: 2, fn: textPredicate(strings.Contains)},
	{name: "startswith", nArgs: 2, fn: textPredicate(strings.HasPrefix)},
	{name: "endswith", nArgs: 2, fn: textPredicate(strings.HasSuffix)},
	{name: "tolower", nArgs: 1, fn: textMap(strings.ToLower)},
	{name: "toupper", nArgs: 1, fn: textMap(strings.ToUpper)},
}

var (
	moderncOnce sync.Once
	moderncErr  error
	mattnOnce   sync.Once
)

// registeredDriver installs the filter functions for driver and returns the
// database/sql driver name to open.
func registeredDriver(name string) (string, error) {
	switch name {
	case DriverModernc:
		moderncOnce.Do(func() {
			for _, f := range filterFunctions {
				f := f
				err := sqlite.RegisterDeterministicScalarFunction(f.name, int32(f.nArgs),
					func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
						vals := make([]any, len(args))
						for i, a := range args {
							vals[i] = a
						}
						return f.fn(vals), nil
					})
				if err != nil {
					moderncErr = fmt.Errorf("register function %s: %w", f.name, err)
					return
				}
			}
		})
		return DriverModernc, moderncErr

	case DriverMattn:
		mattnOnce.Do(func() {
			sql.Register(mattnDriverName, &sqlite3.SQLiteDriver{
				ConnectHook: func(conn *sqlite3.SQLiteConn) error {
					for _, f := range filterFunctions {
						if err := conn.RegisterFunc(f.name, mattnImpl(f), true); err != nil {
							return fmt.Errorf("register function %s: %w", f.name, err)
						}
					}
					return nil
				},
			})
		})
		return mattnDriverName, nil

	default:
		return "", fmt.Errorf("unsupported driver %q (want %q or %q)", name, DriverModernc, DriverMattn)
	}
}

// mattnImpl adapts f to the fixed-arity signature go-sqlite3 reflects on.
func mattnImpl(f scalarFunc) any {
	if f.nArgs == 1 {
		return func(a any) any { return f.fn([]any{a}) }
	}
	return func(a, b any) any { return f.fn([]any{a, b}) }
}

func textPredicate(pred func(s, sub string) bool) func([]any) any {
	return func(args []any) any {
		s, ok1 := asText(args[0])
		sub, ok2 := asText(args[1])
		if !ok1 || !ok2 {
			return nil
		}
		if pred(s, sub) {
			return int64(1)
		}
		return int64(0)
	}
}

func textMap(m func(string) string) func([]any) any {
	return func(args []any) any {
		s, ok := asText(args[0])
		if !ok {
			return nil
		}
		return m(s)
	}
}

func asText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}
