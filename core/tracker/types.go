package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/freightdispatch/core/model"
)

// AssetDirectory answers proximity queries. Implementations may over-return:
// the tracker re-applies the radius and type filters itself.
type AssetDirectory interface {
	Find(ctx context.Context, origin model.GeoPoint, radiusKm float64, types []model.FleetType) ([]model.Asset, error)
}

// Named is implemented by directories that report their search method.
type Named interface {
	Name() string
}

// ScoredAsset is a request scoped candidate. Asset is a copy of the directory
// record; DistanceKm and Efficiency only exist for the current request.
type ScoredAsset struct {
	Asset      model.Asset
	DistanceKm float64
	Efficiency float64
}

// TrackingResult is the ranked output of one search.
type TrackingResult struct {
	CargoID    string
	Candidates []ScoredAsset
	Method     string
	Latency    time.Duration
	RadiusKm   float64
}

// Empty reports whether no asset matched.
func (r TrackingResult) Empty() bool { return len(r.Candidates) == 0 }

// ErrRetrieval matches every RetrievalError.
var ErrRetrieval = errors.New("asset retrieval failed")

// RetrievalError reports a failed directory query. No partial result is
// returned alongside it.
type RetrievalError struct {
	CargoID string
	Method  string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("tracker: %s query for cargo %s: %v", e.Method, e.CargoID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }
