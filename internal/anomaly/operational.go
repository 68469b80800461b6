package anomaly

import (
	"fmt"

	"github.com/verdantis/carbon-canary/internal/model"
)

// OperationalConsistencyDetector is a deterministic cross-field check:
// positive emissions must be backed by a nonzero activity driver. It is a
// rule check, not a statistical one, so severity and confidence are fixed.
type OperationalConsistencyDetector struct{}

// NewOperationalConsistencyDetector creates the cross-field rule checker.
func NewOperationalConsistencyDetector(Config) *OperationalConsistencyDetector {
	return &OperationalConsistencyDetector{}
}

// Name identifies the detector in logs and reports.
func (d *OperationalConsistencyDetector) Name() string { return "operational_consistency" }

// Detect flags calculations whose emissions have no activity data behind them.
func (d *OperationalConsistencyDetector) Detect(input Input) []Finding {
	var findings []Finding
	for i := range input.Current {
		calc := &input.Current[i]

		if calc.Scope1TCO2e > 0 && calc.FuelConsumption == 0 {
			findings = append(findings, inconsistency(calc, model.ScopeOne,
				calc.Scope1TCO2e, calc.FuelConsumption,
				"Scope 1 emissions reported but no fuel consumption data",
				[]string{
					"Verify fuel consumption data entry",
					"Check data collection processes",
					"Ensure all fuel types are captured",
				}))
		}

		if calc.Scope2TCO2e > 0 && calc.ElectricityConsumption == 0 {
			findings = append(findings, inconsistency(calc, model.ScopeTwo,
				calc.Scope2TCO2e, calc.ElectricityConsumption,
				"Scope 2 emissions reported but no electricity consumption data",
				[]string{
					"Verify electricity consumption data entry",
					"Check utility bill data collection",
					"Ensure all facilities are included",
				}))
		}
	}
	return findings
}

func inconsistency(calc *model.EmissionsCalculation, scope model.Scope, emissions, activity float64, desc string, recs []string) Finding {
	return Finding{
		Type:            TypeOperationalInconsistency,
		Severity:        model.SeverityMedium,
		Description:     fmt.Sprintf("%s (calculation %s)", desc, calc.ID),
		DetectedValue:   emissions,
		ExpectedLow:     0,
		ExpectedHigh:    emissions,
		Confidence:      0.95,
		Recommendations: recs,
		Inconsistency: &InconsistencyDetail{
			Scope:         scope,
			CalculationID: calc.ID,
			Emissions:     emissions,
			Activity:      activity,
		},
	}
}
