// Package store executes planned SELECT statements against SQLite.
//
// Two drivers are supported and selected by Config.Driver:
//
//   - "sqlite": modernc.org/sqlite, pure Go (default)
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// Both get the filter functions SQLite lacks natively (contains,
// startswith, endswith, tolower, toupper) registered on every connection,
// so a converted filter such as "contains(title, 'go')" runs unchanged.
//
// # Usage
//
//	st, err := store.Open(store.Config{Driver: "sqlite", DSN: "data/books.db"}, logger)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rows, err := st.Query(ctx, stmt) // stmt from sqlbuild.Build
//
// Open forces a single connection for in-memory databases, since each
// SQLite connection would otherwise see its own empty database.
package store
