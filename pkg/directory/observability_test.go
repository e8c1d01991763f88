package directory

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()
	rec.Observe(ctx, "find", true, 10*time.Millisecond)
	rec.Observe(ctx, "find", true, 5*time.Millisecond)
	rec.Observe(ctx, "find", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Second) // unnamed operations are dropped

	snap := rec.Snapshot()
	if got := snap.DurationsMS["find"]; got != 16 {
		t.Fatalf("duration total = %v, want 16", got)
	}
	if got := snap.Results["find"]["success"]; got != 2 {
		t.Fatalf("success count = %d, want 2", got)
	}
	if got := snap.Results["find"]["error"]; got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
	if len(snap.DurationsMS) != 1 {
		t.Fatalf("unexpected operations %v", snap.DurationsMS)
	}
}

func TestExpvarRecorderGeneratesName(t *testing.T) {
	a := NewExpvarMetricsRecorder("")
	b := NewExpvarMetricsRecorder("")
	if a.Name() == "" || a.Name() == b.Name() {
		t.Fatalf("expected distinct generated names, got %q and %q", a.Name(), b.Name())
	}
	if !strings.HasPrefix(a.Name(), "directory_service_metrics_") {
		t.Fatalf("unexpected generated name %q", a.Name())
	}
}

func TestJSONTracerRecordsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	ctx := context.Background()

	_, span := tracer.Start(ctx, "build_index")
	span.End(nil)
	_, span = tracer.Start(ctx, "find")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Operation != "build_index" || entries[0].Status != "success" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Operation != "find" || entries[1].Status != "error" || entries[1].Error != "boom" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
	if lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1; lines != 2 {
		t.Fatalf("expected 2 encoded lines, got %d: %q", lines, buf.String())
	}
}

func TestJSONTracerNilWriter(t *testing.T) {
	tracer := NewJSONTracer(nil)
	_, span := tracer.Start(context.Background(), "find")
	span.End(nil)
	if len(tracer.Entries()) != 1 {
		t.Fatal("expected entry to be retained without a writer")
	}
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "find", true, 10*time.Millisecond)
	rec.Observe(ctx, "find", true, 20*time.Millisecond)
	rec.Observe(ctx, "build_index", false, time.Millisecond)

	if got := testutil.ToFloat64(rec.results.WithLabelValues("find", "success")); got != 2 {
		t.Fatalf("find success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues("build_index", "error")); got != 1 {
		t.Fatalf("build_index error = %v, want 1", got)
	}
}

func TestPrometheusRecorderRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}
