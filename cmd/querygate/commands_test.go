package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/querygate/pkg/cli"
)

const testCatalog = `
resources:
  - name: books
    template: "odata://catalog/books{?filter,select,orderby,top,skip}"
    table: books
    properties:
      title: string
      price: number
`

const testRows = `
- title: Go in Action
  price: 35.5
- title: SQL Antipatterns
  price: 9.99
- title: The Go Programming Language
  price: 42
`

// setupWorkspace points the global --catalog and --db flags at a fresh
// directory and returns it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "catalog.yaml"), testCatalog)

	cfgFile = ""
	catalogPath = filepath.Join(dir, "catalog.yaml")
	dbPath = filepath.Join(dir, "books.db")
	verbose = false
	t.Cleanup(func() {
		catalogPath = ""
		dbPath = ""
	})
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func loadTestRows(t *testing.T, dir string) {
	t.Helper()
	rowsFile := filepath.Join(dir, "books.yaml")
	writeFile(t, rowsFile, testRows)

	loadFlags.resource = "books"
	loadFlags.file = rowsFile
	loadFlags.quiet = true
	if err := loadRows(context.Background(), &bytes.Buffer{}); err != nil {
		t.Fatalf("loadRows() error = %v", err)
	}
}

func TestLoadAndRead(t *testing.T) {
	dir := setupWorkspace(t)
	loadTestRows(t, dir)

	readFlags.output = "csv"
	var out bytes.Buffer
	err := readURI(context.Background(), &out, "odata://catalog/books?select=title&orderby=price%20desc&filter=price%20gt%2010")
	if err != nil {
		t.Fatalf("readURI() error = %v", err)
	}

	want := "title\nThe Go Programming Language\nGo in Action\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestLoadRows_UndeclaredProperty(t *testing.T) {
	dir := setupWorkspace(t)
	rowsFile := filepath.Join(dir, "bad.yaml")
	writeFile(t, rowsFile, "- title: ok\n- title: bad\n  isbn: 123\n")

	loadFlags.resource = "books"
	loadFlags.file = rowsFile
	loadFlags.quiet = true
	err := loadRows(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for undeclared property")
	}
	if !strings.Contains(err.Error(), `"isbn"`) {
		t.Errorf("error = %v, want it to name the property", err)
	}
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Error("store should not be opened when a row is rejected")
	}
}

func TestLoadRows_MissingFlags(t *testing.T) {
	setupWorkspace(t)

	loadFlags.resource = ""
	loadFlags.file = ""
	err := loadRows(context.Background(), &bytes.Buffer{})
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("ExitCode = %d, want %d", cli.ExitCode(err), cli.ExitConfig)
	}
}

func TestReadURI_ExitCodes(t *testing.T) {
	dir := setupWorkspace(t)
	loadTestRows(t, dir)
	readFlags.output = "text"

	tests := []struct {
		name string
		uri  string
		want int
	}{
		{"no match", "odata://catalog/authors", cli.ExitNotFound},
		{"not whitelisted", "odata://catalog/books?select=isbn", cli.ExitRejected},
		{"top out of range", "odata://catalog/books?top=0", cli.ExitRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := readURI(context.Background(), &bytes.Buffer{}, tt.uri)
			if got := cli.ExitCode(err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, tt.want)
			}
		})
	}
}

func TestMatchURI(t *testing.T) {
	setupWorkspace(t)

	matchFlags.output = "text"
	var out bytes.Buffer
	if err := matchURI(context.Background(), &out, "odata://catalog/books?orderby=title%20desc&top=5"); err != nil {
		t.Fatalf("matchURI() error = %v", err)
	}

	for _, want := range []string{
		"resource: books (table books)",
		"orderby = title desc",
		"top:     5",
		"sql: SELECT",
		`ORDER BY "title" DESC`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestMatchURI_JSON(t *testing.T) {
	setupWorkspace(t)

	matchFlags.output = "json"
	defer func() { matchFlags.output = "text" }()

	var out bytes.Buffer
	if err := matchURI(context.Background(), &out, "odata://catalog/books?select=title"); err != nil {
		t.Fatalf("matchURI() error = %v", err)
	}

	var resp struct {
		Resource string `json:"resource"`
		Table    string `json:"table"`
		SQL      string `json:"sql"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if resp.Resource != "books" || resp.Table != "books" {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.HasPrefix(resp.SQL, `SELECT "title" FROM "books"`) {
		t.Errorf("SQL = %q", resp.SQL)
	}
}

func TestCheckParams(t *testing.T) {
	setupWorkspace(t)

	tests := []struct {
		name     string
		params   []string
		encoded  bool
		wantCode int
		wantOut  string
	}{
		{
			name:    "valid",
			params:  []string{"filter=price gt 10", "orderby=title desc"},
			wantOut: "filter:  price > 10",
		},
		{
			name:    "encoded",
			params:  []string{"filter=price%20gt%2010"},
			encoded: true,
			wantOut: "filter:  price > 10",
		},
		{
			name:     "not whitelisted",
			params:   []string{"select=isbn"},
			wantCode: cli.ExitRejected,
		},
		{
			name:     "malformed flag",
			params:   []string{"filter"},
			wantCode: cli.ExitConfig,
		},
		{
			name:     "repeated name",
			params:   []string{"top=1", "top=2"},
			wantCode: cli.ExitConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkFlags.resource = "books"
			checkFlags.params = tt.params
			checkFlags.encoded = tt.encoded
			checkFlags.output = "text"

			var out bytes.Buffer
			err := checkParams(&out)
			if got := cli.ExitCode(err); got != tt.wantCode {
				t.Fatalf("ExitCode(%v) = %d, want %d", err, got, tt.wantCode)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out.String())
			}
		})
	}
}

func TestCheckParams_UnknownResource(t *testing.T) {
	setupWorkspace(t)

	checkFlags.resource = "authors"
	checkFlags.params = nil
	err := checkParams(&bytes.Buffer{})
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("ExitCode(%v) = %d, want %d", err, cli.ExitCode(err), cli.ExitConfig)
	}
}
