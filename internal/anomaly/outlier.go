package anomaly

import (
	"fmt"
	"math"
	"time"

	"github.com/verdantis/carbon-canary/internal/model"
)

// StatisticalOutlierDetector flags current-period values that are z-score
// outliers against the historical values for the same calendar month.
// Restricting the comparison set to the same month keeps seasonal
// operations (heating, production cycles) comparable.
type StatisticalOutlierDetector struct {
	cfg Config
}

// NewStatisticalOutlierDetector creates a same-month z-score detector.
func NewStatisticalOutlierDetector(cfg Config) *StatisticalOutlierDetector {
	return &StatisticalOutlierDetector{cfg: cfg}
}

// Name identifies the detector in logs and reports.
func (d *StatisticalOutlierDetector) Name() string { return "statistical_outlier" }

// Detect computes per-month z-scores for each current calculation.
func (d *StatisticalOutlierDetector) Detect(input Input) []Finding {
	if len(input.Historical) < d.cfg.MinHistoricalPoints {
		return nil
	}

	type scopeValue func(*model.EmissionsCalculation) float64
	scopes := []struct {
		value scopeValue
		scope model.Scope
	}{
		{func(c *model.EmissionsCalculation) float64 { return c.Scope1TCO2e }, model.ScopeOne},
		{func(c *model.EmissionsCalculation) float64 { return c.Scope2TCO2e }, model.ScopeTwo},
	}

	var findings []Finding
	for _, sv := range scopes {
		byMonth := make(map[time.Month][]float64)
		for i := range input.Historical {
			calc := &input.Historical[i]
			byMonth[calc.Month()] = append(byMonth[calc.Month()], sv.value(calc))
		}

		for i := range input.Current {
			calc := &input.Current[i]
			history := byMonth[calc.Month()]
			if len(history) < d.cfg.MinHistoricalPoints {
				continue
			}

			mean := meanOf(history)
			stdev := sampleStdDev(history, mean)
			// A degenerate single-valued history cannot identify outliers.
			if stdev <= 0 {
				continue
			}

			value := sv.value(calc)
			z := math.Abs(value-mean) / stdev
			if z <= d.cfg.OutlierZThreshold {
				continue
			}

			findings = append(findings, Finding{
				Type:     TypeStatisticalOutlier,
				Severity: bandSeverity(z, d.cfg.OutlierZThreshold),
				Description: fmt.Sprintf("%s emissions for %s is a statistical outlier (Z-score: %.2f)",
					scopeLabel(sv.scope), calc.Month().String(), z),
				DetectedValue: value,
				ExpectedLow:   mean - 2*stdev,
				ExpectedHigh:  mean + 2*stdev,
				Confidence:    0.90,
				Recommendations: []string{
					"Verify data entry accuracy for this period",
					"Check for unusual operational events",
					"Review calculation methodology",
				},
				Outlier: &OutlierDetail{
					Scope:         sv.scope,
					CalculationID: calc.ID,
					Month:         calc.Month(),
					ZScore:        z,
					Mean:          mean,
					StdDev:        stdev,
				},
			})
		}
	}
	return findings
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev computes the sample standard deviation (n-1 denominator).
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
