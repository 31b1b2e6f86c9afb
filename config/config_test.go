package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `log:
  level: debug
pipeline:
  total_budget_ms: 80
  enforce_deadline: true
audit:
  min_margin: 0.65
  exploration_share: 0.10
  daily_volume: 300
exploration:
  backend: redis
  redis:
    url: "redis://localhost:6379/0"
directory:
  type: geojson
  path: fleet.geojson
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  qos: 1
metrics:
  prom_addr: ":9090"
  sinks:
    - type: "nop"
    - type: "influx"
      conf:
        url: "http://localhost:8086"
        bucket: "dispatch"
sentry:
  dsn: "https://key@sentry.example/1"
  environment: "staging"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"log.level", cfg.Log.Level, "debug"},
		{"pipeline.total_budget_ms", cfg.Pipeline.TotalBudgetMS, 80},
		{"pipeline.enforce_deadline", cfg.Pipeline.EnforceDeadline, true},
		{"pipeline.latency_target_ms", cfg.Pipeline.LatencyTargetMS, 150},
		{"audit.min_margin", cfg.Audit.MinMargin, 0.65},
		{"audit.daily_volume", cfg.Audit.DailyVolume, 300},
		{"audit.new_driver_days", cfg.Audit.NewDriverDays, 30},
		{"exploration.backend", cfg.Exploration.Backend, QuotaRedis},
		{"exploration.redis.url", cfg.Exploration.Redis.URL, "redis://localhost:6379/0"},
		{"directory.type", cfg.Directory.Type, DirectoryGeoJSON},
		{"directory.path", cfg.Directory.Path, "fleet.geojson"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "freight/dispatch"},
		{"metrics.prom_addr", cfg.Metrics.PromAddr, ":9090"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.sinks.1.type", cfg.Metrics.Sinks[1].Type, "influx"},
		{"metrics.sinks.1.conf.bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "dispatch"},
		{"sentry.environment", cfg.Sentry.Environment, "staging"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadJSONWithEnvOverride(t *testing.T) {
	path := writeFile(t, "config.json", `{"pipeline":{"total_budget_ms":100},"log":{"level":"info"}}`)
	t.Setenv("FD_PIPELINE__TOTAL_BUDGET_MS", "200")
	t.Setenv("FD_LOG__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Pipeline.TotalBudgetMS)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DirectoryMemory, cfg.Directory.Type)
	assert.True(t, cfg.Directory.Seed)
	assert.Equal(t, QuotaUnlimited, cfg.Exploration.Backend)
	assert.Equal(t, 0.70, cfg.Audit.MinMargin)
	assert.Equal(t, 100, cfg.Pipeline.TotalBudgetMS)
	assert.False(t, cfg.MQTT.Enabled())
	assert.Equal(t, "development", cfg.Sentry.Environment)
	assert.Equal(t, *Default(), *cfg)
}

func TestLoadKeepsExplicitZeroAudit(t *testing.T) {
	path := writeFile(t, "zero.yaml", "audit:\n  min_margin: 0\n  new_driver_discount: 0\n  exploration_share: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Audit.MinMargin)
	assert.Zero(t, cfg.Audit.NewDriverDiscount)
	assert.Zero(t, cfg.Audit.ExplorationShare)
	assert.Equal(t, 0.75, cfg.Audit.TargetMargin)
	assert.Equal(t, 30, cfg.Audit.NewDriverDays)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unsupported": writeFile(t, "config.toml", "x = 1"),
		"bad level":   writeFile(t, "level.yaml", "log:\n  level: loud\n"),
		"geojson":     writeFile(t, "geo.yaml", "directory:\n  type: geojson\n"),
		"redis quota": writeFile(t, "quota.yaml", "exploration:\n  backend: redis\n"),
		"quota type":  writeFile(t, "qt.yaml", "exploration:\n  backend: lottery\n"),
		"thresholds":  writeFile(t, "th.yaml", "pipeline:\n  latency_warning_ms: 500\n"),
		"margin":      writeFile(t, "m.yaml", "audit:\n  min_margin: 1.5\n"),
		"mqtt qos":    writeFile(t, "mq.yaml", "mqtt:\n  broker: tcp://x:1883\n  qos: 5\n"),
		"sample rate": writeFile(t, "s.yaml", "sentry:\n  traces_sample_rate: 2\n"),
		"missing":     filepath.Join(t.TempDir(), "absent.yaml"),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
