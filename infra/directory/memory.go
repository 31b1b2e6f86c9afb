package directory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kilianp07/freightdispatch/core/geo"
	"github.com/kilianp07/freightdispatch/core/model"
)

// Memory serves a static snapshot of assets. Find returns copies, so callers
// can never alter the snapshot.
type Memory struct {
	mu     sync.RWMutex
	name   string
	assets []model.Asset
}

// NewMemory validates assets and returns a snapshot directory.
func NewMemory(assets []model.Asset) (*Memory, error) {
	m := &Memory{name: "memory"}
	if err := m.Replace(assets); err != nil {
		return nil, err
	}
	return m, nil
}

// Name is the search method tag.
func (m *Memory) Name() string { return m.name }

// Replace swaps the snapshot atomically. Invalid or duplicate assets reject
// the whole snapshot.
func (m *Memory) Replace(assets []model.Asset) error {
	seen := make(map[string]struct{}, len(assets))
	snap := make([]model.Asset, 0, len(assets))
	for i, a := range assets {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("directory: asset #%d: %w", i, err)
		}
		if _, dup := seen[a.Plate]; dup {
			return fmt.Errorf("directory: duplicate plate %s", a.Plate)
		}
		seen[a.Plate] = struct{}{}
		snap = append(snap, a.Clone())
	}
	m.mu.Lock()
	m.assets = snap
	m.mu.Unlock()
	return nil
}

// Len returns the snapshot size.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}

// All returns a copy of the snapshot in enumeration order.
func (m *Memory) All() []model.Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Asset, len(m.assets))
	for i, a := range m.assets {
		out[i] = a.Clone()
	}
	return out
}

// Find returns the assets within radiusKm of origin whose fleet type is in
// types, in snapshot order.
func (m *Memory) Find(ctx context.Context, origin model.GeoPoint, radiusKm float64, types []model.FleetType) ([]model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Asset
	for _, a := range m.assets {
		if !slices.Contains(types, a.FleetType) {
			continue
		}
		if geo.Haversine(origin, a.Location) > radiusKm {
			continue
		}
		out = append(out, a.Clone())
	}
	return out, nil
}
