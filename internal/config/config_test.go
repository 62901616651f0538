// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"os"
	"testing"
)

const (
	validConfigPath      = "testdata/valid_config.yaml"
	expansionConfigPath  = "testdata/expansion_config.yaml"
	nonexistentPath      = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg   = "expected no error, got %v"
	expectedNonNilConfig = "expected non-nil config"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != "gridiron-edge" {
		t.Errorf("expected app name 'gridiron-edge', got '%s'", cfg.App.Name)
	}
	if cfg.League.HomeFieldAdvantage != 2.5 {
		t.Errorf("expected home field advantage 2.5, got %f", cfg.League.HomeFieldAdvantage)
	}
	if len(cfg.League.KeyNumbers) != 2 {
		t.Errorf("expected 2 key numbers, got %d", len(cfg.League.KeyNumbers))
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvExpansion tests ${VAR} expansion in the YAML
func TestLoadConfigEnvExpansion(t *testing.T) {
	os.Setenv("TEST_DATA_API_KEY", "expanded_secret_value")
	defer os.Unsetenv("TEST_DATA_API_KEY")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Dataset.APIKey != "expanded_secret_value" {
		t.Errorf("expected expanded api key, got '%s'", cfg.Dataset.APIKey)
	}
}

// TestLoadWithDefaultsNoFile ensures defaults alone produce a valid config
func TestLoadWithDefaultsNoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.League.SmoothingOldWeight != 0.9 {
		t.Errorf("expected default smoothing_old_weight 0.9, got %f", cfg.League.SmoothingOldWeight)
	}
}

// TestValidateRejectsBadSmoothingWeights tests the weight-sum invariant
func TestValidateRejectsBadSmoothingWeights(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	cfg.League.SmoothingOldWeight = 0.9
	cfg.League.SmoothingNewWeight = 0.2

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for weights not summing to 1")
	}
}

// TestValidateRejectsInvertedThresholds tests tier threshold ordering
func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	cfg.Edge.StrongThreshold = 1.5 // below moderate

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for non-monotone tier thresholds")
	}
}

// TestValidateRejectsLowRespectCeiling tests ceiling vs max threshold
func TestValidateRejectsLowRespectCeiling(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	cfg.Edge.MarketRespectCeiling = 5.0

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for respect ceiling below max threshold")
	}
}

// TestValidateRejectsBadEnvironment tests the environment enum
func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	cfg.App.Environment = "invalid"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateRejectsBadDateRange tests backtest date ordering
func TestValidateRejectsBadDateRange(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	cfg.Backtest.StartDate = "2024-03-01"
	cfg.Backtest.EndDate = "2023-09-01"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for inverted date range")
	}
}

// TestGetDatabaseDSN tests DSN formatting
func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "localhost", Port: 5432, Name: "edges", User: "eng", Password: "pw", SSLMode: "disable",
	}}
	dsn := cfg.GetDatabaseDSN()
	expected := "postgres://eng:pw@localhost:5432/edges?sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN '%s', got '%s'", expected, dsn)
	}
}
