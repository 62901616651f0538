// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// smoothingWeightTolerance is the allowed drift from 1.0 for the sum of
// the exponential smoothing weights.
const smoothingWeightTolerance = 1e-9

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("gamedate", validateGameDate)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration. Any failure here is a
// ConfigurationError: fatal at startup, never surfaced at call time.
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateGameDate validates date strings in YYYY-MM-DD form
func validateGameDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	league := cfg.League
	if math.Abs(league.SmoothingOldWeight+league.SmoothingNewWeight-1.0) > smoothingWeightTolerance {
		return fmt.Errorf("smoothing weights must sum to 1, got %f + %f",
			league.SmoothingOldWeight, league.SmoothingNewWeight)
	}
	if league.SmoothingOldWeight <= league.SmoothingNewWeight {
		return fmt.Errorf("smoothing_old_weight must dominate smoothing_new_weight")
	}
	if league.RatingFloor >= league.RatingCeiling {
		return fmt.Errorf("rating_floor must be below rating_ceiling")
	}
	if league.DefaultRating < league.RatingFloor || league.DefaultRating > league.RatingCeiling {
		return fmt.Errorf("default_rating %f outside rating scale [%f, %f]",
			league.DefaultRating, league.RatingFloor, league.RatingCeiling)
	}

	edge := cfg.Edge
	if !(edge.LeanThreshold <= edge.ModerateThreshold &&
		edge.ModerateThreshold <= edge.StrongThreshold &&
		edge.StrongThreshold <= edge.MaxThreshold) {
		return fmt.Errorf("edge tier thresholds must be non-decreasing")
	}
	if edge.MinimumEdge > edge.ModerateThreshold {
		return fmt.Errorf("minimum_edge cannot exceed moderate_threshold")
	}
	if edge.MarketRespectCeiling <= edge.MaxThreshold {
		return fmt.Errorf("market_respect_ceiling must exceed max_threshold")
	}

	if cfg.Sizing.PctPerStar*3.0 > cfg.Sizing.SafetyCeilingPct*2 {
		return fmt.Errorf("pct_per_star is implausibly large relative to safety_ceiling_pct")
	}

	startDate, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		return fmt.Errorf("invalid backtest start_date format: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		return fmt.Errorf("invalid backtest end_date format: %w", err)
	}
	if !startDate.Before(endDate) {
		return fmt.Errorf("backtest start_date must be before end_date")
	}

	if cfg.Database.Enabled {
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "gamedate":
			errMsg += fmt.Sprintf("- Field '%s' must be a YYYY-MM-DD date, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
