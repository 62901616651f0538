// Package helpers provides shared fixtures for integration and e2e tests.
package helpers

import (
	"io"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
)

// QuietLogger returns a logger that discards all output.
func QuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// TestConfig returns a fully populated configuration with the standard
// calibration values used across the test suite.
func TestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "gridiron-edge",
			Environment: "development",
			LogLevel:    "error",
		},
		League: config.LeagueConfig{
			Name:               "NFL",
			HomeFieldAdvantage: 2.5,
			DefaultRating:      85.0,
			RatingFloor:        60.0,
			RatingCeiling:      110.0,
			SmoothingOldWeight: 0.9,
			SmoothingNewWeight: 0.1,
			KeyNumbers:         []float64{3.0, 7.0},
		},
		Injury: config.InjuryConfig{
			TeamCapPoints:       6.0,
			LingeringWindowDays: 14,
		},
		Edge: config.EdgeConfig{
			FavoriteBias:         0.85,
			UnderdogBoost:        1.15,
			MarketRespectCeiling: 10.0,
			MinimumEdge:          1.0,
			LeanThreshold:        1.0,
			ModerateThreshold:    2.0,
			StrongThreshold:      3.5,
			MaxThreshold:         5.5,
			SituationalCap:       4.0,
		},
		Sizing: config.SizingConfig{
			KellyFraction:    0.25,
			SafetyCeilingPct: 5.0,
			StarFloorEdgePct: 1.0,
			PctPerStar:       1.0,
			SpreadPrice:      -110,
		},
		Backtest: config.BacktestConfig{
			StartDate:       "2023-09-01",
			EndDate:         "2024-02-15",
			InitialBankroll: 10000.0,
			OutputPath:      "backtest_report.json",
		},
		Dataset: config.DatasetConfig{
			TimeoutSeconds:     10,
			MaxRetries:         2,
			RateLimitPerSecond: 5.0,
			CacheTTLSeconds:    300,
		},
		Metrics: config.MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// TestdataPath resolves a file under internal/dataset/testdata relative
// to the repository root, independent of the test's working directory.
func TestdataPath(name string) string {
	_, thisFile, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(thisFile), "..", "..")
	return filepath.Join(root, "internal", "dataset", "testdata", name)
}
