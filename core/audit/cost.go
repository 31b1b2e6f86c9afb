package audit

import (
	"math"

	"github.com/kilianp07/freightdispatch/core/model"
)

// VariableCost estimates the trip cost of a candidate: cost per km times the
// distance, minus the new driver discount, floored at zero. A zero or unknown
// distance is replaced by cfg.DefaultDistanceKm.
func VariableCost(a model.Asset, distanceKm float64, cfg Config) float64 {
	cost := a.CostPerKm * tripDistance(distanceKm, cfg)
	if a.IsNewDriver(cfg.NewDriverDays) {
		cost -= cfg.NewDriverDiscount
	}
	return math.Max(0, cost)
}

// Margin returns the contribution margin clamped to [0,1]. A non positive
// price yields 0.
func Margin(targetPrice, variableCost float64) float64 {
	if targetPrice <= 0 {
		return 0
	}
	m := (targetPrice - variableCost) / targetPrice
	return math.Max(0, math.Min(1, m))
}

// TargetPriceAdherence scores how close margin is to target, 1 being a perfect
// match: max(0, 1 - |margin-target|/target).
func TargetPriceAdherence(margin, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(margin-target)/target)
}

func tripDistance(distanceKm float64, cfg Config) float64 {
	if math.IsNaN(distanceKm) || distanceKm <= 0 {
		return cfg.DefaultDistanceKm
	}
	return distanceKm
}
