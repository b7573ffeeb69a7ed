package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
postgres:
  dsn: postgres://localhost:5432/rankwatch
nats:
  url: nats://localhost:4222
http:
  address: ":9000"
stats:
  reset_hour_utc: 5
  batch_group_size: 25
  eligibility_minimum: 20
  cycle_interval: 30m
  apex_cutoffs:
    grandmaster: 300
    challenger: 700
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/rankwatch", cfg.Postgres.DSN)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, 5, cfg.Stats.ResetHourUTC)
	assert.Equal(t, 25, cfg.Stats.BatchGroupSize)
	assert.Equal(t, 20, cfg.Stats.EligibilityMinimum)
	assert.Equal(t, 30*time.Minute, cfg.Stats.CycleInterval)
	assert.Equal(t, 300, cfg.Stats.ApexCutoffs.Grandmaster)
	assert.Equal(t, 700, cfg.Stats.ApexCutoffs.Challenger)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
postgres:
  dsn: postgres://localhost:5432/rankwatch
nats:
  url: nats://localhost:4222
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 20.0, cfg.RankSource.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RankSource.Burst)
	assert.Equal(t, 7, cfg.Stats.ResetHourUTC)
	assert.Equal(t, 50, cfg.Stats.BatchGroupSize)
	assert.Equal(t, 10, cfg.Stats.EligibilityMinimum)
	assert.Equal(t, time.Hour, cfg.Stats.CycleInterval)
	assert.Equal(t, 200, cfg.Stats.ApexCutoffs.Grandmaster)
	assert.Equal(t, 500, cfg.Stats.ApexCutoffs.Challenger)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
postgres:
  dsn: postgres://file-value
nats:
  url: nats://file-value
`)

	t.Setenv("DATABASE_URL", "postgres://env-value")
	t.Setenv("NATS_URL", "nats://env-value")
	t.Setenv("STATS_CYCLE_INTERVAL", "15m")
	t.Setenv("STATS_RESET_HOUR_UTC", "9")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-value", cfg.Postgres.DSN)
	assert.Equal(t, "nats://env-value", cfg.NATS.URL)
	assert.Equal(t, 15*time.Minute, cfg.Stats.CycleInterval)
	assert.Equal(t, 9, cfg.Stats.ResetHourUTC)
}

func TestLoadConfig_MissingRequiredValues(t *testing.T) {
	t.Run("no DSN", func(t *testing.T) {
		path := writeConfigFile(t, "nats:\n  url: nats://localhost:4222\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("no NATS URL", func(t *testing.T) {
		path := writeConfigFile(t, "postgres:\n  dsn: postgres://localhost\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestLoadConfig_OutOfRangeResetHour(t *testing.T) {
	path := writeConfigFile(t, `
postgres:
  dsn: postgres://localhost
nats:
  url: nats://localhost
stats:
  reset_hour_utc: 30
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Stats.ResetHourUTC)
}
