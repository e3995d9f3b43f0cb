package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

func TestLoggerFrom_FromContext(t *testing.T) {
	expected := zap.NewNop().Named("req")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), loggerKey, expected)
	req = req.WithContext(ctx)

	if got := LoggerFrom(req, nil); got != expected {
		t.Errorf("LoggerFrom() = %p, want %p", got, expected)
	}
}

func TestLoggerFrom_NotInContext(t *testing.T) {
	fallback := zap.NewNop()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LoggerFrom(req, fallback); got != fallback {
		t.Errorf("LoggerFrom() = %p, want fallback %p", got, fallback)
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generates id", ""},
		{"keeps caller id", "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/quote", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Request = req
			e.Response = rec

			if err := RequestLoggerMiddleware(zap.NewNop())(e); err != nil {
				t.Fatalf("middleware returned %v", err)
			}

			id := rec.Header().Get(RequestIDHeader)
			if id == "" {
				t.Fatal("expected request id header")
			}
			if tt.incoming != "" && id != tt.incoming {
				t.Errorf("request id = %q, want %q", id, tt.incoming)
			}
			if LoggerFrom(e.Request, nil) == nil {
				t.Error("expected request logger in context")
			}
		})
	}
}
