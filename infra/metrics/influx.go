package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/freightdispatch/core/metrics"
	"github.com/kilianp07/freightdispatch/infra/logger"
)

// InfluxSink writes dispatch decisions to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

// RecordDecision writes one dispatch_decision point.
func (s *InfluxSink) RecordDecision(rec coremetrics.DecisionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_decision").
		AddTag("cargo_id", rec.CargoID).
		AddTag("plate", rec.Plate).
		AddTag("fleet_type", rec.FleetType.String()).
		AddTag("status", rec.Status.String()).
		AddTag("execution_id", rec.ExecutionID).
		AddField("freight_value", round3(rec.FreightValue)).
		AddField("margin", round3(rec.Margin)).
		AddField("target_price_score", round3(rec.TargetPriceScore)).
		AddField("exploration", rec.Exploration).
		AddField("candidates", rec.Candidates).
		AddField("latency_ms", round3(ms(rec.Latency))).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFailure writes a dispatch_failure point.
func (s *InfluxSink) RecordFailure(rec coremetrics.FailureRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_failure").
		AddTag("cargo_id", rec.CargoID).
		AddTag("stage", rec.Stage).
		AddTag("execution_id", rec.ExecutionID).
		AddField("error", rec.Error).
		AddField("latency_ms", round3(ms(rec.Latency))).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordStageLatency writes a dispatch_stage_latency point.
func (s *InfluxSink) RecordStageLatency(st coremetrics.StageLatency) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_stage_latency").
		AddTag("stage", st.Stage).
		AddTag("execution_id", st.ExecutionID).
		AddField("duration_ms", round3(ms(st.Duration))).
		AddField("budget_ms", round3(ms(st.Budget))).
		AddField("exceeded", st.Exceeded()).
		SetTime(st.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func ms(d time.Duration) float64 { return d.Seconds() * 1000 }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
