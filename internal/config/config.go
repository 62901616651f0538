// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration.
// All tunables are loaded once at startup, validated, and injected into
// components at construction; nothing reads config ambiently at call time.
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	League   LeagueConfig   `mapstructure:"league" validate:"required"`
	Injury   InjuryConfig   `mapstructure:"injury" validate:"required"`
	Edge     EdgeConfig     `mapstructure:"edge" validate:"required"`
	Sizing   SizingConfig   `mapstructure:"sizing" validate:"required"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Dataset  DatasetConfig  `mapstructure:"dataset" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// LeagueConfig holds the power-rating tunables for one league.
// Smoothing weights must sum to 1 with the old-rating weight dominant.
type LeagueConfig struct {
	Name               string    `mapstructure:"name" validate:"required"`
	HomeFieldAdvantage float64   `mapstructure:"home_field_advantage" validate:"gte=0,lte=10"`
	DefaultRating      float64   `mapstructure:"default_rating" validate:"required,gt=0"`
	RatingFloor        float64   `mapstructure:"rating_floor" validate:"required,gt=0"`
	RatingCeiling      float64   `mapstructure:"rating_ceiling" validate:"required,gt=0"`
	SmoothingOldWeight float64   `mapstructure:"smoothing_old_weight" validate:"required,gt=0,lt=1"`
	SmoothingNewWeight float64   `mapstructure:"smoothing_new_weight" validate:"required,gt=0,lt=1"`
	KeyNumbers         []float64 `mapstructure:"key_numbers" validate:"required,min=1"`
}

// InjuryConfig holds injury-valuation tunables.
type InjuryConfig struct {
	TeamCapPoints       float64 `mapstructure:"team_cap_points" validate:"required,gt=0,lte=10"`
	LingeringWindowDays int     `mapstructure:"lingering_window_days" validate:"required,gt=0"`
}

// EdgeConfig holds edge-detection calibration tunables.
// FavoriteBias shrinks predictions that agree with the market favorite;
// UnderdogBoost amplifies predictions that take the market underdog.
type EdgeConfig struct {
	FavoriteBias         float64 `mapstructure:"favorite_bias" validate:"required,gt=0,lte=1"`
	UnderdogBoost        float64 `mapstructure:"underdog_boost" validate:"required,gte=1,lte=2"`
	MarketRespectCeiling float64 `mapstructure:"market_respect_ceiling" validate:"required,gt=0"`
	MinimumEdge          float64 `mapstructure:"minimum_edge" validate:"required,gt=0"`
	LeanThreshold        float64 `mapstructure:"lean_threshold" validate:"required,gt=0"`
	ModerateThreshold    float64 `mapstructure:"moderate_threshold" validate:"required,gt=0"`
	StrongThreshold      float64 `mapstructure:"strong_threshold" validate:"required,gt=0"`
	MaxThreshold         float64 `mapstructure:"max_threshold" validate:"required,gt=0"`
	SituationalCap       float64 `mapstructure:"situational_cap" validate:"required,gt=0,lte=5"`
}

// SizingConfig holds bet-sizing tunables for the star system and Kelly.
type SizingConfig struct {
	KellyFraction    float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	SafetyCeilingPct float64 `mapstructure:"safety_ceiling_pct" validate:"required,gt=0,lte=10"`
	StarFloorEdgePct float64 `mapstructure:"star_floor_edge_pct" validate:"required,gt=0"`
	PctPerStar       float64 `mapstructure:"pct_per_star" validate:"required,gt=0,lte=3"`
	SpreadPrice      int     `mapstructure:"spread_price" validate:"required,lt=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate       string  `mapstructure:"start_date" validate:"required,gamedate"`
	EndDate         string  `mapstructure:"end_date" validate:"required,gamedate"`
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	OutputPath      string  `mapstructure:"output_path" validate:"required"`
	PersistReport   bool    `mapstructure:"persist_report"`
}

// DatasetConfig configures the slate/game-log boundary loaders.
// ServiceURL is optional; when set, slates are fetched over HTTP instead
// of read from local files.
type DatasetConfig struct {
	SlatePath          string  `mapstructure:"slate_path"`
	GameLogPath        string  `mapstructure:"game_log_path"`
	SeedRatingsPath    string  `mapstructure:"seed_ratings_path"`
	ServiceURL         string  `mapstructure:"service_url" validate:"omitempty,url"`
	APIKey             string  `mapstructure:"api_key"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration.
// Persistence is optional; the core engine never touches it.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
