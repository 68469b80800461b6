// Package report builds reporting projections of validation results and
// renders them for the terminal.
package report

import (
	"time"

	"github.com/verdantis/carbon-canary/internal/model"
	"github.com/verdantis/carbon-canary/internal/validation"
)

// Detail selects how much of a validation result a projection carries.
type Detail string

const (
	// DetailExecutive is the one-screen leadership view.
	DetailExecutive Detail = "executive"
	// DetailSummary adds score breakdowns and per-severity counts.
	DetailSummary Detail = "summary"
	// DetailComprehensive carries the full result for audit review.
	DetailComprehensive Detail = "comprehensive"
)

// Executive is the leadership projection of a validation run: outcome,
// confidence, and the handful of findings that demand attention.
type Executive struct {
	GeneratedAt     time.Time
	ValidationID    string
	CompanyName     string
	ReportingYear   int
	Status          validation.Status
	Compliance      validation.ComplianceLevel
	OverallScore    float64
	ConfidenceLevel string
	KeyFindings     []string
	ActionRequired  bool
}

// Summary extends the executive view with score components, discrepancy
// counts, and the full recommendation list.
type Summary struct {
	Executive
	Scores             validation.Scores
	DiscrepancyCounts  map[model.Severity]int
	AnomalyCount       int
	AnomalyRiskScore   float64
	Recommendations    []string
	ReferenceAvailable bool
}

// Comprehensive wraps the full result for audit review, with the summary
// projection precomputed for rendering.
type Comprehensive struct {
	Summary
	Result *validation.Result
}

// BuildExecutive projects a result down to the executive view.
func BuildExecutive(result *validation.Result) Executive {
	return Executive{
		GeneratedAt:     time.Now().UTC(),
		ValidationID:    result.ValidationID,
		CompanyName:     result.CompanyName,
		ReportingYear:   result.ReportingYear,
		Status:          result.Status,
		Compliance:      result.Compliance,
		OverallScore:    result.Scores.Overall,
		ConfidenceLevel: validation.ConfidenceLevel(result.Scores.Overall),
		KeyFindings:     keyFindings(result, 3),
		ActionRequired:  actionRequired(result),
	}
}

// BuildSummary projects a result down to the summary view.
func BuildSummary(result *validation.Result) Summary {
	counts := map[model.Severity]int{
		model.SeverityLow:      0,
		model.SeverityMedium:   0,
		model.SeverityHigh:     0,
		model.SeverityCritical: 0,
	}
	for i := range result.Discrepancies {
		counts[result.Discrepancies[i].Severity]++
	}

	return Summary{
		Executive:          BuildExecutive(result),
		Scores:             result.Scores,
		DiscrepancyCounts:  counts,
		AnomalyCount:       result.Anomalies.TotalAnomalies,
		AnomalyRiskScore:   result.Anomalies.OverallRiskScore,
		Recommendations:    result.Recommendations,
		ReferenceAvailable: result.ReferenceAvailable,
	}
}

// BuildComprehensive wraps the full result for audit review.
func BuildComprehensive(result *validation.Result) Comprehensive {
	return Comprehensive{
		Summary: BuildSummary(result),
		Result:  result,
	}
}

// keyFindings picks the most severe discrepancies, at most limit, for the
// executive view.
func keyFindings(result *validation.Result, limit int) []string {
	var findings []string
	order := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
	}
	for _, severity := range order {
		for i := range result.Discrepancies {
			if result.Discrepancies[i].Severity != severity {
				continue
			}
			findings = append(findings, result.Discrepancies[i].Description)
			if len(findings) == limit {
				return findings
			}
		}
	}
	return findings
}

func actionRequired(result *validation.Result) bool {
	return result.Status == validation.StatusFailed ||
		result.Compliance == validation.ComplianceNonCompliant ||
		result.HasSeverity(model.SeverityCritical) ||
		result.HasSeverity(model.SeverityHigh)
}
