package anomaly

import (
	"fmt"

	"github.com/verdantis/carbon-canary/internal/common"
)

// IntensityBenchmark is an industry's expected emissions per dollar of
// revenue, split by scope.
type IntensityBenchmark struct {
	Scope1PerRevenue float64
	Scope2PerRevenue float64
}

// Config holds detection thresholds. Immutable after construction; validate
// once at startup and share freely across concurrent runs.
type Config struct {
	Benchmarks map[string]IntensityBenchmark
	// YearOverYearThreshold is the relative change that triggers a
	// year-over-year finding (0.20 = 20%).
	YearOverYearThreshold float64
	// OutlierZThreshold is the z-score above which a same-month value is
	// an outlier.
	OutlierZThreshold float64
	// BenchmarkThreshold is the relative deviation from the industry
	// intensity benchmark that triggers a finding (0.30 = 30%).
	BenchmarkThreshold float64
	// MinHistoricalPoints is the minimum number of same-month historical
	// observations required before outlier statistics are computed.
	MinHistoricalPoints int
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		YearOverYearThreshold: 0.20,
		OutlierZThreshold:     2.0,
		BenchmarkThreshold:    0.30,
		MinHistoricalPoints:   3,
		Benchmarks: map[string]IntensityBenchmark{
			"manufacturing": {Scope1PerRevenue: 0.15, Scope2PerRevenue: 0.08},
			"technology":    {Scope1PerRevenue: 0.02, Scope2PerRevenue: 0.05},
			"retail":        {Scope1PerRevenue: 0.05, Scope2PerRevenue: 0.12},
			"energy":        {Scope1PerRevenue: 0.45, Scope2PerRevenue: 0.15},
			"default":       {Scope1PerRevenue: 0.10, Scope2PerRevenue: 0.08},
		},
	}
}

// Validate checks the thresholds are usable. Fails fast at startup.
func (c Config) Validate() error {
	if c.YearOverYearThreshold <= 0 {
		return fmt.Errorf("%w: year-over-year threshold must be positive", common.ErrInvalidConfig)
	}
	if c.OutlierZThreshold <= 0 {
		return fmt.Errorf("%w: outlier z threshold must be positive", common.ErrInvalidConfig)
	}
	if c.BenchmarkThreshold <= 0 {
		return fmt.Errorf("%w: benchmark threshold must be positive", common.ErrInvalidConfig)
	}
	if c.MinHistoricalPoints < 2 {
		return fmt.Errorf("%w: at least 2 historical points are required for statistics", common.ErrInvalidConfig)
	}
	if _, ok := c.Benchmarks["default"]; !ok {
		return fmt.Errorf("%w: benchmarks must include a default entry", common.ErrInvalidConfig)
	}
	return nil
}

// benchmarkFor resolves the intensity benchmark for an industry, falling
// back to the default entry when the industry is unmapped.
func (c Config) benchmarkFor(industry string) (IntensityBenchmark, string) {
	if b, ok := c.Benchmarks[industry]; ok {
		return b, industry
	}
	return c.Benchmarks["default"], "default"
}
