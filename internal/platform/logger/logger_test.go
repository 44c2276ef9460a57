package logger

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter_format(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "info", "json").Info("hello")
	if !strings.Contains(buf.String(), `"service":"hdr-bracket-sync"`) {
		t.Errorf("json output missing service attr: %s", buf.String())
	}

	buf.Reset()
	NewWithWriter(&buf, "info", "text").Info("hello")
	if !strings.Contains(buf.String(), "service=hdr-bracket-sync") {
		t.Errorf("text output missing service attr: %s", buf.String())
	}

	buf.Reset()
	NewWithWriter(&buf, "warn", "json").Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level: %s", buf.String())
	}
}

func newLoggedRouter(buf *bytes.Buffer, level string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestLogger(NewWithWriter(buf, level, "json")))
	r.Route("/cameras/{camera_id}", func(r chi.Router) {
		r.Post("/frames", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{}"))
		})
		r.Put("/profiles", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
	})
	return r
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf, "info")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cameras/cam7/profiles", nil))

	out := buf.String()
	for _, want := range []string{
		`"msg":"request"`,
		`"method":"PUT"`,
		`"status":400`,
		`"route":"/cameras/{camera_id}/profiles"`,
		`"camera_id":"cam7"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestRequestLogger_frames_at_debug(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf, "info")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cameras/cam7/frames", nil))
	if buf.Len() != 0 {
		t.Errorf("successful frame posts should log at debug: %s", buf.String())
	}

	buf.Reset()
	r = newLoggedRouter(&buf, "debug")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cameras/cam7/frames", nil))
	if !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("expected debug request line, got: %s", buf.String())
	}
}
