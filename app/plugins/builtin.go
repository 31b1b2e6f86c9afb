package plugins

import (
	"context"
	"fmt"

	"github.com/kilianp07/freightdispatch/config"
	"github.com/kilianp07/freightdispatch/core/audit"
	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/core/tracker"
	"github.com/kilianp07/freightdispatch/infra/directory"
	"github.com/kilianp07/freightdispatch/infra/quota"
)

func init() {
	RegisterDirectory(config.DirectoryMemory, func(_ context.Context, c config.DirectoryConfig) (tracker.AssetDirectory, error) {
		var assets []model.Asset
		if c.Seed {
			assets = directory.SeedFleet()
		}
		return directory.NewMemory(assets)
	})
	RegisterDirectory(config.DirectoryGeoJSON, func(_ context.Context, c config.DirectoryConfig) (tracker.AssetDirectory, error) {
		return directory.LoadGeoJSON(c.Path)
	})
	RegisterDirectory(config.DirectoryRedis, newRedisDirectory)

	RegisterQuota(config.QuotaUnlimited, func(context.Context, config.ExplorationConfig, audit.Config) (audit.ExplorationQuota, error) {
		return audit.UnlimitedQuota{}, nil
	})
	RegisterQuota(config.QuotaMemory, func(_ context.Context, _ config.ExplorationConfig, ac audit.Config) (audit.ExplorationQuota, error) {
		return audit.NewDailyQuota(ac.ExplorationShare, ac.DailyVolume), nil
	})
	RegisterQuota(config.QuotaRedis, func(_ context.Context, c config.ExplorationConfig, ac audit.Config) (audit.ExplorationQuota, error) {
		return quota.NewRedis(quota.Config{URL: c.Redis.URL, KeyPrefix: c.Redis.KeyPrefix}, ac.ExplorationShare, ac.DailyVolume)
	})
}

// newRedisDirectory connects to the index and loads the snapshot at Path, or
// the demo fleet when Seed is set. Without either the index is used as is.
func newRedisDirectory(ctx context.Context, c config.DirectoryConfig) (tracker.AssetDirectory, error) {
	r, err := directory.NewRedis(directory.RedisConfig{URL: c.Redis.URL, KeyPrefix: c.Redis.KeyPrefix})
	if err != nil {
		return nil, err
	}
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, err
	}
	var assets []model.Asset
	switch {
	case c.Path != "":
		snap, err := directory.LoadGeoJSON(c.Path)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		assets = snap.All()
	case c.Seed:
		assets = directory.SeedFleet()
	default:
		return r, nil
	}
	if err := r.Load(ctx, assets); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("load redis index: %w", err)
	}
	return r, nil
}

// NewDirectory resolves the configured directory type.
func NewDirectory(ctx context.Context, c config.DirectoryConfig) (tracker.AssetDirectory, error) {
	f, ok := Directories[c.Type]
	if !ok {
		return nil, fmt.Errorf("unknown directory type %q", c.Type)
	}
	return f(ctx, c)
}

// NewQuota resolves the configured exploration backend.
func NewQuota(ctx context.Context, c config.ExplorationConfig, ac audit.Config) (audit.ExplorationQuota, error) {
	f, ok := Quotas[c.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown exploration backend %q", c.Backend)
	}
	return f(ctx, c, ac)
}
