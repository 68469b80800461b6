package anomaly

import (
	"fmt"
	"math"

	"github.com/verdantis/carbon-canary/internal/model"
)

// YearOverYearDetector compares the current year's scope totals against the
// most recent historical year and flags swings past the configured
// threshold. Scope 1 and Scope 2 are checked independently.
type YearOverYearDetector struct {
	cfg Config
}

// NewYearOverYearDetector creates a year-over-year variance detector.
func NewYearOverYearDetector(cfg Config) *YearOverYearDetector {
	return &YearOverYearDetector{cfg: cfg}
}

// Name identifies the detector in logs and reports.
func (d *YearOverYearDetector) Name() string { return "year_over_year" }

// Detect compares current scope totals to the immediately preceding year.
func (d *YearOverYearDetector) Detect(input Input) []Finding {
	if len(input.Historical) == 0 {
		return nil
	}

	// The comparison year is the latest year present in the history.
	prevYear := 0
	for i := range input.Historical {
		if y := input.Historical[i].Year(); y > prevYear {
			prevYear = y
		}
	}
	var prevCalcs []model.EmissionsCalculation
	for i := range input.Historical {
		if input.Historical[i].Year() == prevYear {
			prevCalcs = append(prevCalcs, input.Historical[i])
		}
	}

	var findings []Finding
	for _, scope := range []model.Scope{model.ScopeOne, model.ScopeTwo} {
		current := sumScope(input.Current, scope)
		previous := sumScope(prevCalcs, scope)

		// Percentage change is undefined against a zero baseline.
		if previous <= 0 {
			continue
		}

		ratio := math.Abs(current-previous) / previous
		if ratio <= d.cfg.YearOverYearThreshold {
			continue
		}

		findings = append(findings, Finding{
			Type:          TypeYearOverYearVariance,
			Severity:      bandSeverity(ratio, d.cfg.YearOverYearThreshold),
			Description:   fmt.Sprintf("%s emissions variance of %.1f%% from previous year", scopeLabel(scope), ratio*100),
			DetectedValue:   current,
			ExpectedLow:     previous * (1 - d.cfg.YearOverYearThreshold),
			ExpectedHigh:    previous * (1 + d.cfg.YearOverYearThreshold),
			Confidence:      0.85,
			Recommendations: yoyRecommendations(scope),
			YoY: &YoYDetail{
				Scope:         scope,
				Current:       current,
				Previous:      previous,
				VarianceRatio: ratio,
			},
		})
	}
	return findings
}

func yoyRecommendations(scope model.Scope) []string {
	if scope == model.ScopeOne {
		return []string{
			"Review operational changes that may have impacted fuel consumption",
			"Verify data collection methodology consistency",
			"Check for new facilities or equipment additions",
		}
	}
	return []string{
		"Review electricity consumption patterns",
		"Check for changes in grid emission factors",
		"Verify renewable energy procurement changes",
	}
}

func scopeLabel(scope model.Scope) string {
	switch scope {
	case model.ScopeOne:
		return "Scope 1"
	case model.ScopeTwo:
		return "Scope 2"
	default:
		return string(scope)
	}
}
