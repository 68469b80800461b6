package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/verdantis/carbon-canary/internal/common"
	"github.com/verdantis/carbon-canary/internal/ghgrp"
	"github.com/verdantis/carbon-canary/internal/validation"
)

// LoadValidationConfig builds the validation policy from Viper, starting
// from the standard defaults. Unset keys keep their default values; the
// result is validated before use.
func LoadValidationConfig() (validation.Config, error) {
	cfg := validation.DefaultConfig()

	if viper.IsSet("validation.thresholds.low") {
		cfg.Thresholds.Low = viper.GetFloat64("validation.thresholds.low")
	}
	if viper.IsSet("validation.thresholds.medium") {
		cfg.Thresholds.Medium = viper.GetFloat64("validation.thresholds.medium")
	}
	if viper.IsSet("validation.thresholds.high") {
		cfg.Thresholds.High = viper.GetFloat64("validation.thresholds.high")
	}
	if viper.IsSet("validation.thresholds.critical") {
		cfg.Thresholds.Critical = viper.GetFloat64("validation.thresholds.critical")
	}

	if viper.IsSet("validation.weights.reference_availability") {
		cfg.Weights.ReferenceAvailability = viper.GetFloat64("validation.weights.reference_availability")
	}
	if viper.IsSet("validation.weights.variance") {
		cfg.Weights.Variance = viper.GetFloat64("validation.weights.variance")
	}
	if viper.IsSet("validation.weights.data_quality") {
		cfg.Weights.DataQuality = viper.GetFloat64("validation.weights.data_quality")
	}
	if viper.IsSet("validation.weights.completeness") {
		cfg.Weights.Completeness = viper.GetFloat64("validation.weights.completeness")
	}
	if viper.IsSet("validation.weights.consistency") {
		cfg.Weights.Consistency = viper.GetFloat64("validation.weights.consistency")
	}

	if viper.IsSet("anomaly.year_over_year_threshold") {
		cfg.Anomaly.YearOverYearThreshold = viper.GetFloat64("anomaly.year_over_year_threshold")
	}
	if viper.IsSet("anomaly.outlier_z_threshold") {
		cfg.Anomaly.OutlierZThreshold = viper.GetFloat64("anomaly.outlier_z_threshold")
	}
	if viper.IsSet("anomaly.benchmark_threshold") {
		cfg.Anomaly.BenchmarkThreshold = viper.GetFloat64("anomaly.benchmark_threshold")
	}
	if viper.IsSet("anomaly.min_historical_points") {
		cfg.Anomaly.MinHistoricalPoints = viper.GetInt("anomaly.min_historical_points")
	}

	if viper.IsSet("validation.historical_years") {
		cfg.HistoricalYears = viper.GetInt("validation.historical_years")
	}
	if viper.IsSet("validation.max_recommendations") {
		cfg.MaxRecommendations = viper.GetInt("validation.max_recommendations")
	}

	if err := cfg.Validate(); err != nil {
		return validation.Config{}, err
	}
	return cfg, nil
}

// LoadRegistryConfig builds the EPA GHGRP client configuration from Viper.
func LoadRegistryConfig() ghgrp.Config {
	cfg := ghgrp.Config{
		BaseURL: viper.GetString("registry.base_url"),
		APIKey:  viper.GetString("registry.api_key"),
		Retry: common.RetryOptions{
			MaxAttempts:  viper.GetInt("registry.retry_attempts"),
			InitialDelay: viper.GetDuration("registry.retry_delay"),
		},
	}
	if v := viper.GetDuration("registry.timeout"); v > 0 {
		cfg.Timeout = v
	} else {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}
