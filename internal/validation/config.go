// Package validation implements the emissions cross-verification engine:
// variance analysis against the reference registry, threshold
// classification, anomaly detection, confidence scoring, and the
// orchestration that ties a validation run together.
package validation

import (
	"fmt"
	"math"

	"github.com/verdantis/carbon-canary/internal/anomaly"
	"github.com/verdantis/carbon-canary/internal/common"
)

// Thresholds are the ascending variance cutoffs, in percent. A variance
// strictly greater than a cutoff falls into that band; exactly on the Low
// cutoff is still acceptable.
type Thresholds struct {
	Low      float64
	Medium   float64
	High     float64
	Critical float64
}

// Validate enforces that the cutoffs ascend. Fails fast at startup.
func (t Thresholds) Validate() error {
	if t.Low <= 0 {
		return fmt.Errorf("%w: low threshold must be positive", common.ErrInvalidConfig)
	}
	if !(t.Low < t.Medium && t.Medium < t.High && t.High < t.Critical) {
		return fmt.Errorf("%w: variance thresholds must ascend (low < medium < high < critical), got %.1f/%.1f/%.1f/%.1f",
			common.ErrInvalidConfig, t.Low, t.Medium, t.High, t.Critical)
	}
	return nil
}

// Weights are the confidence-score component weights. They must sum to 1.
type Weights struct {
	ReferenceAvailability float64
	Variance              float64
	DataQuality           float64
	Completeness          float64
	Consistency           float64
}

// weightSumTolerance bounds floating-point drift in the sum-to-one check.
const weightSumTolerance = 1e-9

// Validate enforces non-negative weights summing to exactly 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"reference_availability": w.ReferenceAvailability,
		"variance":               w.Variance,
		"data_quality":           w.DataQuality,
		"completeness":           w.Completeness,
		"consistency":            w.Consistency,
	} {
		if v < 0 {
			return fmt.Errorf("%w: weight %s is negative", common.ErrInvalidConfig, name)
		}
	}
	sum := w.ReferenceAvailability + w.Variance + w.DataQuality + w.Completeness + w.Consistency
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: scoring weights must sum to 1.0, got %.12f", common.ErrInvalidConfig, sum)
	}
	return nil
}

// Config carries every tunable for a validation run. Constructed once,
// validated once, never mutated; concurrent runs share it safely.
type Config struct {
	Thresholds Thresholds
	Weights    Weights
	Anomaly    anomaly.Config
	// HistoricalYears is how far back the engine loads history for the
	// anomaly detectors.
	HistoricalYears int
	// MaxRecommendations caps the recommendation list on a result.
	MaxRecommendations int
}

// DefaultConfig returns the standard validation policy.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			Low:      5.0,
			Medium:   15.0,
			High:     25.0,
			Critical: 50.0,
		},
		Weights: Weights{
			ReferenceAvailability: 0.25,
			Variance:              0.30,
			DataQuality:           0.20,
			Completeness:          0.15,
			Consistency:           0.10,
		},
		Anomaly:            anomaly.DefaultConfig(),
		HistoricalYears:    5,
		MaxRecommendations: 10,
	}
}

// Validate checks the whole configuration. Fails fast at startup.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Anomaly.Validate(); err != nil {
		return err
	}
	if c.HistoricalYears < 1 {
		return fmt.Errorf("%w: historical years must be at least 1", common.ErrInvalidConfig)
	}
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("%w: max recommendations must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}
