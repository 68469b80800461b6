package validation

import "github.com/verdantis/carbon-canary/internal/model"

// DetermineStatus applies the status decision table, in priority order:
// any critical discrepancy fails the run; high discrepancies or an overall
// score under 60 warn; 80 and above passes; everything else warns.
func DetermineStatus(scores Scores, discrepancies []Discrepancy) Status {
	hasCritical := hasSeverity(discrepancies, model.SeverityCritical)
	hasHigh := hasSeverity(discrepancies, model.SeverityHigh)

	switch {
	case hasCritical:
		return StatusFailed
	case hasHigh || scores.Overall < 60:
		return StatusWarning
	case scores.Overall >= 80:
		return StatusPassed
	default:
		return StatusWarning
	}
}

// DetermineCompliance applies the compliance decision table. It shares
// inputs with DetermineStatus but is computed independently; the two are
// not required to agree.
func DetermineCompliance(scores Scores, discrepancies []Discrepancy) ComplianceLevel {
	hasCritical := hasSeverity(discrepancies, model.SeverityCritical)
	hasHigh := hasSeverity(discrepancies, model.SeverityHigh)

	switch {
	case scores.Overall >= 85 && !hasCritical && !hasHigh:
		return ComplianceCompliant
	case hasCritical || scores.Overall < 50:
		return ComplianceNonCompliant
	default:
		return ComplianceNeedsReview
	}
}

func hasSeverity(discrepancies []Discrepancy, severity model.Severity) bool {
	for i := range discrepancies {
		if discrepancies[i].Severity == severity {
			return true
		}
	}
	return false
}
