package anomaly

import (
	"fmt"
	"math"
	"strings"

	"github.com/verdantis/carbon-canary/internal/model"
)

// IndustryBenchmarkDetector compares a company's emissions intensity
// (tCO2e per dollar of revenue) against a per-industry lookup table.
// Companies without a known annual revenue are skipped entirely; the
// detector never substitutes a placeholder figure.
type IndustryBenchmarkDetector struct {
	cfg Config
}

// NewIndustryBenchmarkDetector creates the intensity comparison detector.
func NewIndustryBenchmarkDetector(cfg Config) *IndustryBenchmarkDetector {
	return &IndustryBenchmarkDetector{cfg: cfg}
}

// Name identifies the detector in logs and reports.
func (d *IndustryBenchmarkDetector) Name() string { return "industry_benchmark" }

// Detect compares per-scope intensity against the industry benchmark.
func (d *IndustryBenchmarkDetector) Detect(input Input) []Finding {
	if input.Company == nil || input.Company.AnnualRevenueUSD <= 0 {
		return nil
	}
	revenue := input.Company.AnnualRevenueUSD

	benchmark, industry := d.cfg.benchmarkFor(strings.ToLower(input.Company.Industry))

	type check struct {
		scope     model.Scope
		total     float64
		benchmark float64
		recs      []string
	}
	checks := []check{
		{
			scope:     model.ScopeOne,
			total:     sumScope(input.Current, model.ScopeOne),
			benchmark: benchmark.Scope1PerRevenue,
			recs: []string{
				"Compare operational efficiency with industry peers",
				"Review energy management practices",
				"Consider industry-specific emission reduction strategies",
			},
		},
		{
			scope:     model.ScopeTwo,
			total:     sumScope(input.Current, model.ScopeTwo),
			benchmark: benchmark.Scope2PerRevenue,
			recs: []string{
				"Evaluate electricity procurement strategies",
				"Consider renewable energy options",
				"Review facility energy efficiency",
			},
		},
	}

	var findings []Finding
	for _, c := range checks {
		if c.benchmark <= 0 {
			continue
		}
		intensity := c.total / revenue
		deviation := math.Abs(intensity-c.benchmark) / c.benchmark
		if deviation <= d.cfg.BenchmarkThreshold {
			continue
		}

		findings = append(findings, Finding{
			Type:     TypeIndustryBenchmarkDeviation,
			Severity: bandSeverity(deviation, d.cfg.BenchmarkThreshold),
			Description: fmt.Sprintf("%s emissions intensity deviates %.1f%% from industry benchmark",
				scopeLabel(c.scope), deviation*100),
			DetectedValue:   intensity,
			ExpectedLow:     c.benchmark * (1 - d.cfg.BenchmarkThreshold),
			ExpectedHigh:    c.benchmark * (1 + d.cfg.BenchmarkThreshold),
			Confidence:      0.75,
			Recommendations: c.recs,
			Benchmark: &BenchmarkDetail{
				Scope:     c.scope,
				Industry:  industry,
				Benchmark: c.benchmark,
				Intensity: intensity,
				Deviation: deviation,
			},
		})
	}
	return findings
}
