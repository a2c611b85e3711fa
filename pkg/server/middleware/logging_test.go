package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: `"level":"INFO"`},
		{name: "client error", status: http.StatusBadRequest, wantLevel: `"level":"WARN"`},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if GetStartTime(r.Context()).IsZero() {
					t.Error("start time missing from context")
				}
				w.WriteHeader(tt.status)
			})
			wrapped := RequestIDMiddleware(LoggingMiddleware(testLogger(t, &logs))(handler))

			req := httptest.NewRequest(http.MethodGet, "/read?uri=secret-filter", nil)
			wrapped.ServeHTTP(httptest.NewRecorder(), req)

			out := logs.String()
			if !strings.Contains(out, `"msg":"request completed"`) {
				t.Fatalf("completion not logged: %s", out)
			}
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log level: want %s in %s", tt.wantLevel, out)
			}
			if !strings.Contains(out, `"status":`) || !strings.Contains(out, `"request_id":`) {
				t.Errorf("missing fields: %s", out)
			}
			if strings.Contains(out, "secret-filter") {
				t.Errorf("query string was logged: %s", out)
			}
		})
	}
}

func TestGetStartTime_Empty(t *testing.T) {
	if got := GetStartTime(context.Background()); !got.IsZero() {
		t.Errorf("GetStartTime() = %v, want zero", got)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("sets deadline", func(t *testing.T) {
		var hasDeadline bool
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		})
		TimeoutMiddleware(time.Second)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if !hasDeadline {
			t.Error("request context has no deadline")
		}
	})

	t.Run("zero disables", func(t *testing.T) {
		var hasDeadline bool
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasDeadline = r.Context().Deadline()
		})
		TimeoutMiddleware(0)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if hasDeadline {
			t.Error("zero timeout should not set a deadline")
		}
	})
}
