package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/freightdispatch/core/geo"
	"github.com/kilianp07/freightdispatch/core/logger"
	"github.com/kilianp07/freightdispatch/core/model"
)

// Tracker is the candidate retrieval stage.
type Tracker struct {
	dir    AssetDirectory
	method string
	log    logger.Logger
	now    func() time.Time
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) { t.log = logger.OrNop(l) }
}

// WithClock overrides time.Now, used to measure search latency.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// New returns a Tracker querying dir.
func New(dir AssetDirectory, opts ...Option) (*Tracker, error) {
	if dir == nil {
		return nil, fmt.Errorf("tracker: nil asset directory")
	}
	t := &Tracker{dir: dir, method: "directory", log: logger.Nop{}, now: time.Now}
	if n, ok := dir.(Named); ok && n.Name() != "" {
		t.method = n.Name()
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Method returns the search method tag stamped on results.
func (t *Tracker) Method() string { return t.method }

// Track returns at most req.TopK candidates within req.RadiusKm of the
// origin, of an accepted fleet type and able to carry req.WeightKg, ranked by
// descending efficiency. Ties keep the directory enumeration order. An empty
// candidate list is a valid result.
func (t *Tracker) Track(ctx context.Context, req model.DispatchRequest) (TrackingResult, error) {
	start := t.now()

	assets, err := t.dir.Find(ctx, req.Origin, req.RadiusKm, req.AcceptedTypes)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		retrievalFailures.Inc()
		t.log.Errorf("asset query failed for cargo %s: %v", req.CargoID, err)
		return TrackingResult{}, &RetrievalError{CargoID: req.CargoID, Method: t.method, Err: err}
	}

	candidates := Rank(req, assets)
	latency := t.now().Sub(start)

	candidatesFound.Observe(float64(len(candidates)))
	searchLatency.WithLabelValues(t.method).Observe(latency.Seconds())
	t.log.Debugw("candidates ranked", map[string]any{
		"cargo_id":   req.CargoID,
		"method":     t.method,
		"returned":   len(assets),
		"candidates": len(candidates),
		"radius_km":  req.RadiusKm,
		"latency_ms": latency.Milliseconds(),
	})

	return TrackingResult{
		CargoID:    req.CargoID,
		Candidates: candidates,
		Method:     t.method,
		Latency:    latency,
		RadiusKm:   req.RadiusKm,
	}, nil
}

// Rank filters and scores assets for req. It copies every asset it keeps and
// never modifies the input slice.
func Rank(req model.DispatchRequest, assets []model.Asset) []ScoredAsset {
	out := make([]ScoredAsset, 0, len(assets))
	for _, a := range assets {
		if !req.Accepts(a.FleetType) || a.CapacityKg < req.WeightKg {
			continue
		}
		d := geo.Haversine(req.Origin, a.Location)
		if d > req.RadiusKm {
			continue
		}
		out = append(out, ScoredAsset{
			Asset:      a.Clone(),
			DistanceKm: d,
			Efficiency: EfficiencyScore(d, a.SLARatio, a.CostPerKm, req.TargetPrice),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Efficiency > out[j].Efficiency
	})
	if req.TopK > 0 && len(out) > req.TopK {
		out = out[:req.TopK]
	}
	return out
}
