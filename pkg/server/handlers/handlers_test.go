package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mercator-hq/querygate/pkg/catalog"
	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/odata"
	"mercator-hq/querygate/pkg/params"
	"mercator-hq/querygate/pkg/sqlbuild"
)

type fakeReader struct {
	gotURI string
	result *gateway.Result
	plan   *gateway.Plan
	err    error
}

func (f *fakeReader) Read(_ context.Context, uri string) (*gateway.Result, error) {
	f.gotURI = uri
	return f.result, f.err
}

func (f *fakeReader) Explain(_ context.Context, uri string) (*gateway.Plan, error) {
	f.gotURI = uri
	return f.plan, f.err
}

func readRequest(method, uri string) *http.Request {
	target := "/read"
	if uri != "" {
		target += "?uri=" + url.QueryEscape(uri)
	}
	return httptest.NewRequest(method, target, nil)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        gateway.ErrResourceNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "resource not found",
		},
		{
			name:       "format error",
			err:        odata.NewFormatError("top", "1001", "must be between 1 and 1000"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidParameter,
			wantMsg:    "invalid top",
		},
		{
			name:       "whitelist violation",
			err:        odata.NewWhitelistViolation("select", "column", "secret", []string{"price", "title"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeNotAllowed,
			wantMsg:    "secret",
		},
		{
			name:       "injection",
			err:        fmt.Errorf("wrapped: %w", &odata.InjectionPatternDetected{Param: "filter", Category: odata.CategoryComment}),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeForbiddenPattern,
			wantMsg:    odata.InjectionMessage,
		},
		{
			name:       "internal",
			err:        errors.New("disk I/O error at /var/lib/querygate.db"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternalError,
			wantMsg:    "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := HandleError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if !strings.Contains(body.Error, tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", body.Error, tt.wantMsg)
			}
			if strings.Contains(body.Error, "/var/lib") {
				t.Errorf("internal detail leaked: %q", body.Error)
			}
		})
	}
}

func TestReadHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reader := &fakeReader{result: &gateway.Result{
			Resource: "books",
			Columns:  []string{"title"},
			Rows:     []map[string]any{{"title": "Go in Action"}},
		}}
		uri := "entity?filter=price%20gt%2010"
		w := httptest.NewRecorder()

		NewReadHandler(reader, nil).ServeHTTP(w, readRequest(http.MethodGet, uri))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if reader.gotURI != uri {
			t.Errorf("reader got %q, want %q", reader.gotURI, uri)
		}
		var resp ReadResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if resp.Resource != "books" || resp.Count != 1 || resp.Rows[0]["title"] != "Go in Action" {
			t.Errorf("response = %+v", resp)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("not found body", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewReadHandler(&fakeReader{err: gateway.ErrResourceNotFound}, nil).
			ServeHTTP(w, readRequest(http.MethodGet, "odata://catalog/nothing"))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
		if got := strings.TrimSpace(w.Body.String()); got != `{"error":"resource not found"}` {
			t.Errorf("body = %s", got)
		}
	})

	t.Run("missing uri", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewReadHandler(&fakeReader{}, nil).ServeHTTP(w, readRequest(http.MethodGet, ""))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewReadHandler(&fakeReader{}, nil).ServeHTTP(w, readRequest(http.MethodPost, "entity"))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", w.Code)
		}
		if w.Header().Get("Allow") != http.MethodGet {
			t.Errorf("Allow = %q", w.Header().Get("Allow"))
		}
	})
}

func TestExplainHandler(t *testing.T) {
	snap, err := catalog.Parse([]byte(`
resources:
  - name: entity
    template: "entity{?filter,orderby}"
    table: books
    properties:
      title: string
      price: number
`))
	if err != nil {
		t.Fatal(err)
	}
	res, _ := snap.Get("entity")
	top := 5
	plan := &gateway.Plan{
		Resource: res,
		Params:   map[string]string{"orderby": "title desc"},
		Query: &params.Query{
			OrderBy: []params.OrderClause{{Property: "title", Descending: true}},
			Top:     &top,
		},
		Statement: sqlbuild.Statement{SQL: `SELECT "price", "title" FROM "books" ORDER BY "title" DESC LIMIT 5`},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/explain?uri="+url.QueryEscape("entity?orderby=title%20desc"), nil)
	NewExplainHandler(&fakeReader{plan: plan}, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ExplainResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Resource != "entity" || resp.Table != "books" {
		t.Errorf("resource/table = %q/%q", resp.Resource, resp.Table)
	}
	if len(resp.Query.OrderBy) != 1 || resp.Query.OrderBy[0] != "title desc" {
		t.Errorf("orderby = %v", resp.Query.OrderBy)
	}
	if resp.Query.Top == nil || *resp.Query.Top != 5 {
		t.Errorf("top = %v", resp.Query.Top)
	}
	if !strings.HasPrefix(resp.SQL, "SELECT") {
		t.Errorf("sql = %q", resp.SQL)
	}
	if resp.Args == nil {
		t.Error("args should be an empty array, not null")
	}
}

func TestExplainHandler_Error(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/explain?uri=entity", nil)
	err := &odata.InjectionPatternDetected{Param: "filter", Category: odata.CategoryStatementTerminator}

	NewExplainHandler(&fakeReader{err: err}, nil).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if strings.Contains(w.Body.String(), odata.CategoryStatementTerminator) {
		t.Errorf("category leaked to client: %s", w.Body.String())
	}
}
