package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel("WARN").String())
	assert.Equal(t, "ERROR", ParseLevel("error").String())
	assert.Equal(t, "INFO", ParseLevel("bogus").String())
}

func TestError_AddsCaller(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: LevelInfo, Format: "json", EnableCaller: true, Component: "test"}, &buf)

	l.Error("boom", "error", "disk full")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "boom", recs[0]["msg"])
	assert.Equal(t, "test", recs[0]["component"])
	assert.Contains(t, recs[0]["caller"], "logger_test.go:")
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: LevelInfo}, &buf)

	l.Debug("hidden")
	l.Info("shown")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "shown", recs[0]["msg"])
}

func TestCtx_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: LevelInfo}, &buf)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.Ctx(ctx).Info("traced")
	l.Ctx(context.Background()).Info("untraced")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, sc.TraceID().String(), recs[0]["trace_id"])
	assert.Equal(t, sc.SpanID().String(), recs[0]["span_id"])
	assert.NotContains(t, recs[1], "trace_id")
}

func TestHTTPMiddleware_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: LevelInfo}, &buf)

	h := l.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/9", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "WARN", recs[0]["level"])
	assert.Equal(t, "req-1", recs[0]["request_id"])
	assert.Equal(t, "/products/9", recs[0]["path"])
	assert.EqualValues(t, 404, recs[0]["status_code"])
	assert.EqualValues(t, 4, recs[0]["bytes"])
}
