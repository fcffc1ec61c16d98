package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"imf-reader/internal/logging"
	"imf-reader/internal/metrics"
)

func TestResponseWriterWriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", rw.statusCode)
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Status code should not change after first WriteHeader, got %d", rw.statusCode)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("Recorder code = %d, want 404", w.Code)
	}
}

func TestResponseWriterWrite(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	n, err := rw.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if _, err := rw.Write([]byte(" world")); err != nil {
		t.Fatal(err)
	}
	if rw.bytesWritten != 11 {
		t.Errorf("bytesWritten = %d, want 11", rw.bytesWritten)
	}
	if !rw.wroteHeader {
		t.Error("Write should mark the header written")
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line break"},
		{"cr\rlf", "cr lf"},
		{"nul\x00byte", "nulbyte"},
		{"\x1b[31mred", "[31mred"},
		{"tab\tkept", "tab\tkept"},
		{"bell\x07", "bell"},
	}
	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := getClientIP(r); got != "10.0.0.1" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Real-IP", "10.0.0.2")
	if got := getClientIP(r); got != "10.0.0.2" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.3")
	if got := getClientIP(r); got != "192.168.1.1" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestEscapeW3CField(t *testing.T) {
	if got := escapeW3CField("curl/8.0"); got != "curl/8.0" {
		t.Errorf("got %q", got)
	}
	if got := escapeW3CField(`Mozilla/5.0 "x"`); got != `"Mozilla/5.0 ""x"""` {
		t.Errorf("got %q", got)
	}
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logging.NewWithCore(core, logging.LevelInfo)

	handler := Logger(LoggingConfig{SkipPaths: []string{"/metrics"}}, log)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("body"))
		}),
	)

	for _, path := range []string{"/api/assets?x=1", "/metrics", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("User-Agent", "imf test")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log lines, want 1 (metrics and health skipped)", len(entries))
	}
	line := entries[0].Message
	for _, want := range []string{" GET /api/assets x=1 418 4 ", `"imf test"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestLoggerMiddlewareHealthChecks(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logging.NewWithCore(core, logging.LevelInfo)

	handler := Logger(DefaultLoggingConfig(), log)(http.NotFoundHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if logs.Len() != 1 {
		t.Errorf("health check should be logged by default, got %d lines", logs.Len())
	}
}

func newMetricsRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(Metrics(DefaultMetricsConfig()))
	router.HandleFunc("/api/resolve/{uuid}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	router := newMetricsRouter()
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/resolve/{uuid}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/resolve/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("request counter advanced by %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in-flight gauge = %v after requests completed", got)
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	router := newMetricsRouter()
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := testutil.ToFloat64(counter) - before; got != 0 {
		t.Errorf("skipped path recorded %v requests", got)
	}
}

func TestRouteTemplateUnmatched(t *testing.T) {
	if got := routeTemplate(httptest.NewRequest(http.MethodGet, "/nowhere", nil)); got != unmatchedRoute {
		t.Errorf("routeTemplate() = %q, want %q", got, unmatchedRoute)
	}
}

func TestCompressionMiddleware(t *testing.T) {
	compress, err := Compression(DefaultCompressionConfig())
	if err != nil {
		t.Fatalf("Compression() error = %v", err)
	}

	large := `{"assets":"` + strings.Repeat("urn:uuid:0b6a3c1e ", 200) + `"}`
	handler := compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("small") != "" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(large))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != large {
		t.Error("decompressed body does not match")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/assets?small=1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "{}" {
		t.Errorf("small response should not be compressed: %q %q", w.Header().Get("Content-Encoding"), w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" {
		t.Error("client without Accept-Encoding received gzip")
	}
}

func TestCompressionInvalidLevel(t *testing.T) {
	cfg := DefaultCompressionConfig()
	cfg.Level = 42
	if _, err := Compression(cfg); err == nil {
		t.Error("expected error for invalid compression level")
	}
}
