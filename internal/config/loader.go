// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("GRIDIRON_EDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields, falling back entirely to defaults when no file exists. Defaults
// reflect the documented NFL calibration.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("GRIDIRON_EDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gridiron-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("league.name", "NFL")
	v.SetDefault("league.home_field_advantage", 2.5)
	v.SetDefault("league.default_rating", 85.0)
	v.SetDefault("league.rating_floor", 60.0)
	v.SetDefault("league.rating_ceiling", 110.0)
	v.SetDefault("league.smoothing_old_weight", 0.9)
	v.SetDefault("league.smoothing_new_weight", 0.1)
	v.SetDefault("league.key_numbers", []float64{3, 7})

	v.SetDefault("injury.team_cap_points", 6.0)
	v.SetDefault("injury.lingering_window_days", 14)

	v.SetDefault("edge.favorite_bias", 0.85)
	v.SetDefault("edge.underdog_boost", 1.15)
	v.SetDefault("edge.market_respect_ceiling", 10.0)
	v.SetDefault("edge.minimum_edge", 1.0)
	v.SetDefault("edge.lean_threshold", 1.0)
	v.SetDefault("edge.moderate_threshold", 2.0)
	v.SetDefault("edge.strong_threshold", 3.5)
	v.SetDefault("edge.max_threshold", 5.5)
	v.SetDefault("edge.situational_cap", 3.0)

	v.SetDefault("sizing.kelly_fraction", 0.25)
	v.SetDefault("sizing.safety_ceiling_pct", 5.0)
	v.SetDefault("sizing.star_floor_edge_pct", 1.0)
	v.SetDefault("sizing.pct_per_star", 1.0)
	v.SetDefault("sizing.spread_price", -110)

	v.SetDefault("backtest.start_date", "2023-09-01")
	v.SetDefault("backtest.end_date", "2024-02-15")
	v.SetDefault("backtest.initial_bankroll", 10000.0)
	v.SetDefault("backtest.output_path", "./output/backtest_report.json")

	v.SetDefault("dataset.timeout_seconds", 30)
	v.SetDefault("dataset.max_retries", 3)
	v.SetDefault("dataset.rate_limit_per_second", 5.0)
	v.SetDefault("dataset.cache_ttl_seconds", 300)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
