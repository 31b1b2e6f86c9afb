package plugins

import (
	"context"

	"github.com/kilianp07/freightdispatch/config"
	"github.com/kilianp07/freightdispatch/core/audit"
	"github.com/kilianp07/freightdispatch/core/tracker"
)

// DirectoryFactory builds the asset directory behind the tracker.
type DirectoryFactory func(ctx context.Context, cfg config.DirectoryConfig) (tracker.AssetDirectory, error)

// QuotaFactory builds the exploration quota from the backend settings and the
// audit allowance parameters.
type QuotaFactory func(ctx context.Context, cfg config.ExplorationConfig, ac audit.Config) (audit.ExplorationQuota, error)

var (
	Directories = map[string]DirectoryFactory{}
	Quotas      = map[string]QuotaFactory{}
)

func RegisterDirectory(name string, f DirectoryFactory) { Directories[name] = f }
func RegisterQuota(name string, f QuotaFactory)         { Quotas[name] = f }
