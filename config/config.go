package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	RankSource    RankSourceConfig    `yaml:"rank_source"`
	Stats         StatsConfig         `yaml:"stats"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the read-API listener configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// RankSourceConfig configures the external current-rank source client.
type RankSourceConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKey            string  `yaml:"api_key"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StatsConfig configures the aggregation engine and batch scheduler.
type StatsConfig struct {
	ResetHourUTC       int           `yaml:"reset_hour_utc"`
	BatchGroupSize     int           `yaml:"batch_group_size"`
	EligibilityMinimum int           `yaml:"eligibility_minimum"`
	CycleInterval      time.Duration `yaml:"cycle_interval"`
	ApexCutoffs        ApexCutoffs   `yaml:"apex_cutoffs"`
}

// ApexCutoffs are the display thresholds the inverse score mapping uses for
// the top three tiers. Heuristic, not ladder-accurate.
type ApexCutoffs struct {
	Grandmaster int `yaml:"grandmaster"`
	Challenger  int `yaml:"challenger"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent. Env vars override file
// values either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("RANK_SOURCE_BASE_URL"); v != "" {
		cfg.RankSource.BaseURL = v
	}
	if v := os.Getenv("RANK_SOURCE_API_KEY"); v != "" {
		cfg.RankSource.APIKey = v
	}
	if v := os.Getenv("STATS_CYCLE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Stats.CycleInterval = d
		}
	}
	if v := os.Getenv("STATS_RESET_HOUR_UTC"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			cfg.Stats.ResetHourUTC = h
		}
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}

	cfg.applyDefaults()

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN not set (config file or DATABASE_URL)")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS URL not set (config file or NATS_URL)")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.RankSource.RequestsPerSecond <= 0 {
		c.RankSource.RequestsPerSecond = 20
	}
	if c.RankSource.Burst <= 0 {
		c.RankSource.Burst = 5
	}
	// 0 means unset; a genuine midnight reset is not a supported layout.
	if c.Stats.ResetHourUTC <= 0 || c.Stats.ResetHourUTC > 23 {
		c.Stats.ResetHourUTC = 7
	}
	if c.Stats.BatchGroupSize <= 0 {
		c.Stats.BatchGroupSize = 50
	}
	if c.Stats.EligibilityMinimum <= 0 {
		c.Stats.EligibilityMinimum = 10
	}
	if c.Stats.CycleInterval <= 0 {
		c.Stats.CycleInterval = time.Hour
	}
	if c.Stats.ApexCutoffs.Grandmaster <= 0 {
		c.Stats.ApexCutoffs.Grandmaster = 200
	}
	if c.Stats.ApexCutoffs.Challenger <= 0 {
		c.Stats.ApexCutoffs.Challenger = 500
	}
}
