package validation

import "github.com/verdantis/carbon-canary/internal/model"

// generateRecommendations builds the actionable recommendation list for a
// run from its discrepancies and scores, capped at the configured maximum.
func generateRecommendations(result *Result, max int) []string {
	var recommendations []string

	if hasSeverity(result.Discrepancies, model.SeverityCritical) {
		recommendations = append(recommendations,
			"Address critical discrepancies immediately before SEC filing")
	}
	if hasSeverity(result.Discrepancies, model.SeverityHigh) {
		recommendations = append(recommendations,
			"Review and resolve high-severity discrepancies")
	}

	if result.Scores.Overall < 70 {
		recommendations = append(recommendations,
			"Improve data quality and validation processes")
	}
	if result.Scores.Completeness < 80 {
		recommendations = append(recommendations,
			"Ensure all emission scopes are properly calculated and documented")
	}
	if result.Scores.Consistency < 80 {
		recommendations = append(recommendations,
			"Review calculation methodology for consistency with EPA standards")
	}

	if !result.ReferenceAvailable {
		recommendations = append(recommendations,
			"No registry record was available; corroborate totals with an independent source")
	}

	recommendations = append(recommendations,
		"Maintain comprehensive audit trail for all emissions calculations",
		"Regular validation against the EPA GHGRP database recommended")

	if len(recommendations) > max {
		recommendations = recommendations[:max]
	}
	return recommendations
}
