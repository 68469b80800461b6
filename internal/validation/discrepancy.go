package validation

import (
	"fmt"

	"github.com/verdantis/carbon-canary/internal/model"
)

// detectDiscrepancies derives the discrepancy list for a run from the
// variance analysis. Order-independent; callers append further
// discrepancies (rejected inputs, missing calculations) around this set.
func detectDiscrepancies(variance VarianceResult, thresholds Thresholds) []Discrepancy {
	var discrepancies []Discrepancy

	if variance.Available && variance.PercentageVariance > thresholds.Low {
		severity := varianceSeverity(variance.PercentageVariance, thresholds)
		discrepancies = append(discrepancies, Discrepancy{
			Kind:     KindVarianceThresholdExceeded,
			Category: CategoryVarianceAnalysis,
			Severity: severity,
			Description: fmt.Sprintf("Emissions variance of %.1f%% exceeds %s threshold",
				variance.PercentageVariance, severity),
			Source: "variance_analysis",
			Variance: &VarianceDetail{
				PercentageVariance: variance.PercentageVariance,
				Level:              Level(severity),
			},
		})
	}

	return discrepancies
}

// varianceSeverity escalates through the same cutoffs the classifier uses;
// past the low cutoff the severity tracks the deepest exceeded band.
func varianceSeverity(pct float64, thresholds Thresholds) model.Severity {
	severity := model.SeverityLow
	if pct > thresholds.Medium {
		severity = model.SeverityMedium
	}
	if pct > thresholds.High {
		severity = model.SeverityHigh
	}
	if pct > thresholds.Critical {
		severity = model.SeverityCritical
	}
	return severity
}

// noCalculationsDiscrepancy reports a reporting year with no valid
// calculations; only the engine's short-circuit path produces it.
func noCalculationsDiscrepancy() Discrepancy {
	return Discrepancy{
		Kind:        KindNoCalculations,
		Category:    CategoryDataCompleteness,
		Severity:    model.SeverityCritical,
		Description: "No emissions calculations found for the reporting year",
		Source:      "data_completeness_check",
	}
}

// invalidInputDiscrepancy reports a calculation rejected before analysis.
func invalidInputDiscrepancy(calculationID string, problem error) Discrepancy {
	return Discrepancy{
		Kind:        KindInvalidInput,
		Category:    CategoryDataQuality,
		Severity:    model.SeverityCritical,
		Description: fmt.Sprintf("Calculation rejected before validation: %v", problem),
		Source:      "input_validation",
		Input: &InputDetail{
			CalculationID: calculationID,
			Problem:       problem.Error(),
		},
	}
}
