package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/freightdispatch/core/factory"
	coremetrics "github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/kilianp07/freightdispatch/core/model"
)

type lineServer struct {
	mu     sync.Mutex
	bodies []string
	srv    *httptest.Server
}

func newLineServer(t *testing.T) *lineServer {
	t.Helper()
	ls := &lineServer{}
	ls.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ls.mu.Lock()
		ls.bodies = append(ls.bodies, strings.TrimSpace(string(b)))
		ls.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ls.srv.Close)
	return ls
}

func (ls *lineServer) only(t *testing.T) string {
	t.Helper()
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if len(ls.bodies) != 1 {
		t.Fatalf("expected one write, got %#v", ls.bodies)
	}
	return ls.bodies[0]
}

func TestInfluxSink_RecordDecision(t *testing.T) {
	ls := newLineServer(t)
	sink := NewInfluxSink(ls.srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	rec := coremetrics.DecisionRecord{
		ExecutionID:      "e1",
		CargoID:          "CARGO-1",
		Plate:            "XYZ-5678",
		FleetType:        model.FleetFlatbedTrailer,
		Status:           model.StatusApproved,
		FreightValue:     3500,
		Margin:           0.90571,
		TargetPriceScore: 1,
		Candidates:       2,
		Latency:          1500 * time.Microsecond,
		Time:             now,
	}
	if err := sink.RecordDecision(rec); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("dispatch_decision").
		AddTag("cargo_id", "CARGO-1").
		AddTag("plate", "XYZ-5678").
		AddTag("fleet_type", "flatbed-trailer").
		AddTag("status", "approved").
		AddTag("execution_id", "e1").
		AddField("freight_value", 3500.0).
		AddField("margin", 0.906).
		AddField("target_price_score", 1.0).
		AddField("exploration", false).
		AddField("candidates", 2).
		AddField("latency_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if got := ls.only(t); got != expected {
		t.Errorf("unexpected body:\n%s\nwant:\n%s", got, expected)
	}
}

func TestInfluxSink_RecordFailure(t *testing.T) {
	ls := newLineServer(t)
	sink := NewInfluxSink(ls.srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordFailure(coremetrics.FailureRecord{
		ExecutionID: "e2", CargoID: "CARGO-2", Stage: "tracking", Error: "index offline", Latency: 2 * time.Millisecond, Time: now,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("dispatch_failure").
		AddTag("cargo_id", "CARGO-2").
		AddTag("stage", "tracking").
		AddTag("execution_id", "e2").
		AddField("error", "index offline").
		AddField("latency_ms", 2.0).
		SetTime(now)
	if got, exp := ls.only(t), strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond)); got != exp {
		t.Errorf("body %s, want %s", got, exp)
	}
}

func TestInfluxSink_RecordStageLatency(t *testing.T) {
	ls := newLineServer(t)
	sink := NewInfluxSink(ls.srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	st := coremetrics.StageLatency{ExecutionID: "e3", Stage: "auditing", Duration: 60 * time.Millisecond, Budget: 50 * time.Millisecond, Time: now}
	if err := sink.RecordStageLatency(st); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("dispatch_stage_latency").
		AddTag("stage", "auditing").
		AddTag("execution_id", "e3").
		AddField("duration_ms", 60.0).
		AddField("budget_ms", 50.0).
		AddField("exceeded", true).
		SetTime(now)
	if got, exp := ls.only(t), strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond)); got != exp {
		t.Errorf("body %s, want %s", got, exp)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

func TestInfluxFactoryRequiresURLAndBucket(t *testing.T) {
	_, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "influx", Conf: map[string]any{"org": "o"}}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"url is required", "bucket is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
