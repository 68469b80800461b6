package anomaly

import (
	"fmt"
	"time"

	"github.com/verdantis/carbon-canary/internal/model"
)

// Report aggregates all findings from one detection run.
type Report struct {
	AnalysisDate   time.Time
	CompanyID      string
	BySeverity     map[model.Severity]int
	Findings       []Finding
	Insights       []string
	ReportingYear  int
	TotalAnomalies int
	// OverallRiskScore is 0-100, severity-weighted.
	OverallRiskScore float64
}

// severityWeights drive the overall risk score; critical findings dominate.
var severityWeights = map[model.Severity]float64{
	model.SeverityLow:      1,
	model.SeverityMedium:   2,
	model.SeverityHigh:     4,
	model.SeverityCritical: 8,
}

// Service runs all detectors and assembles the report. Stateless; safe for
// concurrent use.
type Service struct {
	detectors []Detector
	cfg       Config
}

// NewService builds the standard detector set from a validated config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		cfg: cfg,
		detectors: []Detector{
			NewYearOverYearDetector(cfg),
			NewStatisticalOutlierDetector(cfg),
			NewOperationalConsistencyDetector(cfg),
			NewIndustryBenchmarkDetector(cfg),
		},
	}, nil
}

// Run executes every detector against the input and aggregates the results.
// The detectors share no state; their findings are simply unioned.
func (s *Service) Run(input Input) Report {
	var findings []Finding
	for _, d := range s.detectors {
		findings = append(findings, d.Detect(input)...)
	}
	return buildReport(input.Company, input.Year, findings)
}

func buildReport(company *model.Company, year int, findings []Finding) Report {
	bySeverity := map[model.Severity]int{
		model.SeverityLow:      0,
		model.SeverityMedium:   0,
		model.SeverityHigh:     0,
		model.SeverityCritical: 0,
	}
	for i := range findings {
		bySeverity[findings[i].Severity]++
	}

	companyID := ""
	if company != nil {
		companyID = company.ID
	}

	return Report{
		AnalysisDate:     time.Now().UTC(),
		CompanyID:        companyID,
		ReportingYear:    year,
		TotalAnomalies:   len(findings),
		BySeverity:       bySeverity,
		Findings:         findings,
		OverallRiskScore: riskScore(findings),
		Insights:         insights(findings),
	}
}

// riskScore normalizes the severity-weighted sum against the worst case
// (every finding critical), scaled to 0-100.
func riskScore(findings []Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var total float64
	for i := range findings {
		total += severityWeights[findings[i].Severity]
	}
	maxPossible := float64(len(findings)) * severityWeights[model.SeverityCritical]
	score := total / maxPossible * 100
	if score > 100 {
		score = 100
	}
	return score
}

func insights(findings []Finding) []string {
	if len(findings) == 0 {
		return []string{"No significant anomalies detected in emissions data"}
	}

	byType := make(map[Type]int)
	criticalCount := 0
	for i := range findings {
		byType[findings[i].Type]++
		if findings[i].Severity == model.SeverityCritical {
			criticalCount++
		}
	}

	var out []string
	if n := byType[TypeYearOverYearVariance]; n > 0 {
		out = append(out, fmt.Sprintf("Detected %d significant year-over-year variance(s) - review operational changes", n))
	}
	if n := byType[TypeStatisticalOutlier]; n > 0 {
		out = append(out, fmt.Sprintf("Found %d statistical outlier(s) - verify data accuracy", n))
	}
	if n := byType[TypeIndustryBenchmarkDeviation]; n > 0 {
		out = append(out, fmt.Sprintf("Identified %d industry benchmark deviation(s) - consider peer benchmarking", n))
	}
	if n := byType[TypeOperationalInconsistency]; n > 0 {
		out = append(out, fmt.Sprintf("Found %d operational data inconsistency(ies) - review data collection processes", n))
	}
	if criticalCount > 0 {
		out = append(out, fmt.Sprintf("URGENT: %d critical anomalies require immediate attention", criticalCount))
	}
	return out
}
