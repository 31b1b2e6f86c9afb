package scenarios

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/freightdispatch/core/audit"
	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/core/pipeline"
	"github.com/kilianp07/freightdispatch/core/tracker"
	"github.com/kilianp07/freightdispatch/infra/directory"
	"github.com/kilianp07/freightdispatch/infra/metrics"
)

// Build turns the scenario definition into a ready orchestrator and the
// request to run through it.
func Build(sc *Scenario, opts ...pipeline.Option) (*pipeline.Orchestrator, model.DispatchRequest, error) {
	today, err := time.Parse(time.DateOnly, sc.Today)
	if err != nil {
		return nil, model.DispatchRequest{}, err
	}
	now := func() time.Time { return today.Add(12 * time.Hour) }

	assets := make([]model.Asset, 0, len(sc.Assets))
	for _, def := range sc.Assets {
		a, err := def.ToModel()
		if err != nil {
			return nil, model.DispatchRequest{}, err
		}
		assets = append(assets, a)
	}
	req, err := sc.Cargo.ToModel()
	if err != nil {
		return nil, model.DispatchRequest{}, err
	}

	dir, err := directory.NewMemory(assets)
	if err != nil {
		return nil, model.DispatchRequest{}, err
	}
	tr, err := tracker.New(dir, tracker.WithClock(now))
	if err != nil {
		return nil, model.DispatchRequest{}, err
	}
	var quota audit.ExplorationQuota = audit.UnlimitedQuota{}
	if sc.ExplorationLimit != nil {
		// one dispatch per slot: share 1 over the configured volume
		quota = audit.NewDailyQuota(1, *sc.ExplorationLimit)
	}
	aud, err := audit.New(audit.DefaultConfig(), audit.WithClock(now), audit.WithQuota(quota))
	if err != nil {
		return nil, model.DispatchRequest{}, err
	}
	orch, err := pipeline.NewOrchestrator(tr, aud, pipeline.Config{}, append([]pipeline.Option{pipeline.WithClock(now)}, opts...)...)
	if err != nil {
		return nil, model.DispatchRequest{}, err
	}
	return orch, req, nil
}

// RunScenario executes sc and checks the outcome against its expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	orch, req, err := Build(sc, pipeline.WithMetricsSink(sink))
	if err != nil {
		t.Fatalf("build %s: %v", sc.Name, err)
	}
	resp, err := orch.Execute(context.Background(), req)

	if sc.Expected.FailedStage != "" {
		var pe *pipeline.PipelineError
		if !errors.As(err, &pe) {
			t.Fatalf("expected pipeline error, got %v", err)
		}
		if pe.Stage.String() != sc.Expected.FailedStage {
			t.Errorf("failed at %s, expected %s", pe.Stage, sc.Expected.FailedStage)
		}
		if n, _ := testutil.GatherAndCount(reg, "dispatch_sink_failures_total"); n != 1 {
			t.Errorf("expected one failure series, got %d", n)
		}
		return
	}
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if resp.Status.String() != sc.Expected.Status {
		t.Errorf("status %s, expected %s (block reason %q)", resp.Status, sc.Expected.Status, resp.Metadata.BlockReason)
	}
	if sc.Expected.Plate != "" && resp.Asset.Plate != sc.Expected.Plate {
		t.Errorf("plate %s, expected %s", resp.Asset.Plate, sc.Expected.Plate)
	}
	if sc.Expected.MinMargin > 0 && resp.Margin < sc.Expected.MinMargin {
		t.Errorf("margin %.3f below %.3f", resp.Margin, sc.Expected.MinMargin)
	}
	if n, _ := testutil.GatherAndCount(reg, "dispatch_sink_decisions_total"); n != 1 {
		t.Errorf("expected one decision series, got %d", n)
	}
}
