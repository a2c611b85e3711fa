package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/querygate/pkg/config"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "no literals", in: "price gt 10", want: "price gt 10"},
		{name: "quoted literal", in: "title eq 'Dune'", want: "title eq '***'"},
		{name: "escaped quote", in: "title eq 'O''Brien' and x eq 'y'", want: "title eq '***' and x eq '***'"},
		{name: "bearer token", in: "Authorization: Bearer abc.def-ghi", want: "Authorization: Bearer ***"},
		{name: "api key", in: "key sk-abc123", want: "key sk-***"},
		{name: "password", in: "password=hunter2", want: "password: ***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.in); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRedactor_CustomPatterns(t *testing.T) {
	r := NewRedactor([]config.RedactPattern{
		{Name: "isbn", Pattern: `\d{3}-\d{10}`, Replacement: "[ISBN]"},
		{Name: "broken", Pattern: `(`, Replacement: "x"},
	})

	if got := r.RedactString("isbn 978-0441013593"); got != "isbn [ISBN]" {
		t.Errorf("RedactString() = %q", got)
	}
}

func TestRedactor_RedactArgs(t *testing.T) {
	r := NewRedactor(nil)

	args := []any{"filter", "a eq 'b'", "api_key", "plain", "rows", 3}
	got := r.RedactArgs(args...)

	if got[1] != "a eq '***'" {
		t.Errorf("filter = %v", got[1])
	}
	if got[3] != "***" {
		t.Errorf("api_key = %v", got[3])
	}
	if got[5] != 3 {
		t.Errorf("rows = %v", got[5])
	}
	if args[1] != "a eq 'b'" {
		t.Error("RedactArgs modified its input")
	}
}

func TestRedactor_RedactAttr(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{name: "sensitive key", attr: slog.String("Authorization", "anything"), want: "***"},
		{name: "string", attr: slog.String("filter", "x eq 'y'"), want: "x eq '***'"},
		{name: "error", attr: slog.Any("error", errors.New("near 'secret'")), want: "near '***'"},
		{name: "int untouched", attr: slog.Int("rows", 4), want: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactAttr(tt.attr).Value.String(); got != tt.want {
				t.Errorf("RedactAttr() = %q, want %q", got, tt.want)
			}
		})
	}

	group := r.RedactAttr(slog.Group("query", slog.String("filter", "a eq 'b'")))
	if got := group.Value.Group()[0].Value.String(); got != "a eq '***'" {
		t.Errorf("group member = %q", got)
	}
}

func TestRedactingHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewRedactingHandler(slog.NewJSONHandler(buf, nil), NewRedactor(nil))
	logger := slog.New(h).With("password", "p").WithGroup("req")

	logger.Info("filter 'x' rejected", "filter", "a eq 'b'")

	out := buf.String()
	for _, leaked := range []string{`"p"`, "'x'", "'b'"} {
		if strings.Contains(out, leaked) {
			t.Errorf("output contains %s: %s", leaked, out)
		}
	}
	if !strings.Contains(out, `"req":{"filter":"a eq '***'"}`) {
		t.Errorf("group lost: %s", out)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"password", "X-Api_Key", "client_secret", "AUTHORIZATION"} {
		if !isSensitiveKey(key) {
			t.Errorf("isSensitiveKey(%q) = false", key)
		}
	}
	for _, key := range []string{"filter", "resource", "rows"} {
		if isSensitiveKey(key) {
			t.Errorf("isSensitiveKey(%q) = true", key)
		}
	}
}
