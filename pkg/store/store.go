package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"mercator-hq/querygate/pkg/schema"
	"mercator-hq/querygate/pkg/sqlbuild"
)

// Supported driver names.
const (
	// DriverModernc is the pure-Go modernc.org/sqlite driver.
	DriverModernc = "sqlite"

	// DriverMattn is the cgo github.com/mattn/go-sqlite3 driver.
	DriverMattn = "sqlite3"
)

// Config contains configuration for the SQLite store.
type Config struct {
	// Driver selects the SQLite driver: "sqlite" (default) or "sqlite3".
	Driver string

	// DSN is the database file path or DSN.
	DSN string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10, forced to 1 for in-memory databases
	MaxOpenConns int

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// WALMode enables write-ahead logging for file databases.
	WALMode bool
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Driver:       DriverModernc,
		DSN:          "data/querygate.db",
		MaxOpenConns: 10,
		BusyTimeout:  5 * time.Second,
		WALMode:      true,
	}
}

// Store executes planned statements against a SQLite database.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Open opens the database described by cfg and registers the filter
// functions (contains, startswith, endswith, tolower, toupper) on it.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("dsn cannot be empty"))
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store", "driver", cfg.Driver)

	driverName, err := registeredDriver(cfg.Driver)
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}

	memory := isMemory(cfg.DSN)
	if memory {
		cfg.MaxOpenConns = 1
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, NewStorageError(cfg.Driver, "set_busy_timeout", err)
	}
	if cfg.WALMode && !memory {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, NewStorageError(cfg.Driver, "enable_wal", err)
		}
	}

	logger.Info("SQLite store opened",
		"dsn", cfg.DSN,
		"wal_mode", cfg.WALMode && !memory,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return &Store{db: db, driver: cfg.Driver, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError(s.driver, "ping", err)
	}
	return nil
}

// Driver returns the configured driver name.
func (s *Store) Driver() string {
	return s.driver
}

// EnsureTable creates table with one column per declared property if it does
// not exist yet.
func (s *Store) EnsureTable(ctx context.Context, table string, sch *schema.Schema) error {
	names := sch.Names()
	cols := make([]string, len(names))
	for i, name := range names {
		typ, _ := sch.Type(name)
		cols[i] = sqlbuild.QuoteIdentifier(name) + " " + columnType(typ)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		sqlbuild.QuoteIdentifier(table), strings.Join(cols, ", "))

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return NewStorageError(s.driver, "create_table", err)
	}
	s.logger.Debug("table ensured", "table", table, "columns", len(cols))
	return nil
}

// Insert adds one row. Keys of row are column names.
func (s *Store) Insert(ctx context.Context, table string, row map[string]any) error {
	if len(row) == 0 {
		return NewStorageError(s.driver, "insert", fmt.Errorf("row has no columns"))
	}

	// Sorted for a stable statement text.
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	values := make([]interface{}, len(cols))
	for i, col := range cols {
		quoted[i] = sqlbuild.QuoteIdentifier(col)
		values[i] = row[col]
	}

	query, args, err := sq.Insert(sqlbuild.QuoteIdentifier(table)).
		Columns(quoted...).
		Values(values...).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return NewStorageError(s.driver, "insert", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return NewStorageError(s.driver, "insert", err)
	}
	return nil
}

// Query runs stmt and returns every row as a column-name keyed map.
// TEXT values come back as strings rather than byte slices.
func (s *Store) Query(ctx context.Context, stmt sqlbuild.Statement) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, NewStorageError(s.driver, "query", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, NewStorageError(s.driver, "columns", err)
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, NewStorageError(s.driver, "scan", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(s.driver, "iterate", err)
	}
	return result, nil
}

func columnType(t schema.Type) string {
	switch t {
	case schema.TypeInteger, schema.TypeBoolean:
		return "INTEGER"
	case schema.TypeNumber:
		return "REAL"
	default:
		return "TEXT"
	}
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
