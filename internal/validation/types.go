package validation

import (
	"time"

	"github.com/verdantis/carbon-canary/internal/anomaly"
	"github.com/verdantis/carbon-canary/internal/model"
)

// Status is the outcome of a validation run.
type Status string

const (
	// StatusPending means the run has not completed.
	StatusPending Status = "pending"
	// StatusPassed means the data validated cleanly.
	StatusPassed Status = "passed"
	// StatusFailed means the data cannot support a filing as-is.
	StatusFailed Status = "failed"
	// StatusWarning means the data needs review before filing.
	StatusWarning Status = "warning"
)

// ComplianceLevel is the regulatory classification of a run, computed
// independently of Status.
type ComplianceLevel string

const (
	// ComplianceCompliant means the filing position is defensible.
	ComplianceCompliant ComplianceLevel = "compliant"
	// ComplianceNonCompliant means the filing position is not defensible.
	ComplianceNonCompliant ComplianceLevel = "non_compliant"
	// ComplianceNeedsReview means a human must look before filing.
	ComplianceNeedsReview ComplianceLevel = "needs_review"
)

// Stage tracks the orchestrator's progress through a run. Linear; a run
// never moves backwards, and StageFailed is terminal from anywhere.
type Stage string

const (
	// StageStarted is the initial state of a run.
	StageStarted Stage = "started"
	// StageDataFetched means company calculations were loaded.
	StageDataFetched Stage = "data_fetched"
	// StageCrossValidated means registry comparison finished.
	StageCrossValidated Stage = "cross_validated"
	// StageScored means detectors and scoring finished.
	StageScored Stage = "scored"
	// StageClassified means status and compliance were derived.
	StageClassified Stage = "classified"
	// StageComplete means the result is fully assembled.
	StageComplete Stage = "complete"
	// StageFailed is the terminal error state.
	StageFailed Stage = "failed"
)

// DiscrepancyKind is the closed set of discrepancy types the engine emits.
type DiscrepancyKind string

const (
	// KindVarianceThresholdExceeded flags variance past the low cutoff.
	KindVarianceThresholdExceeded DiscrepancyKind = "variance_threshold_exceeded"
	// KindNoCalculations flags a year with nothing to validate.
	KindNoCalculations DiscrepancyKind = "no_calculations"
	// KindInvalidInput flags a calculation rejected before analysis.
	KindInvalidInput DiscrepancyKind = "invalid_input"
	// KindReferenceDiscrepancy carries a discrepancy reported by the
	// registry comparison itself.
	KindReferenceDiscrepancy DiscrepancyKind = "reference_discrepancy"
)

// DiscrepancyCategory groups discrepancies for reporting.
type DiscrepancyCategory string

const (
	// CategoryVarianceAnalysis covers registry variance findings.
	CategoryVarianceAnalysis DiscrepancyCategory = "variance_analysis"
	// CategoryDataCompleteness covers missing-data findings.
	CategoryDataCompleteness DiscrepancyCategory = "data_completeness"
	// CategoryDataQuality covers malformed or implausible inputs.
	CategoryDataQuality DiscrepancyCategory = "data_quality"
	// CategoryReferenceComparison covers registry-reported findings.
	CategoryReferenceComparison DiscrepancyCategory = "reference_comparison"
)

// VarianceDetail is the typed payload for variance discrepancies.
type VarianceDetail struct {
	PercentageVariance float64
	Level              Level
}

// InputDetail is the typed payload for rejected-input discrepancies.
type InputDetail struct {
	CalculationID string
	Problem       string
}

// Discrepancy is a single identified problem. Order-independent; several
// discrepancies may describe the same underlying condition from different
// angles. The detail pointer matching Kind is set; the others are nil.
type Discrepancy struct {
	Variance    *VarianceDetail
	Input       *InputDetail
	Kind        DiscrepancyKind
	Category    DiscrepancyCategory
	Severity    model.Severity
	Description string
	Source      string
}

// Result is the aggregate root of one validation run. Created fresh per
// run, fully populated, and never mutated after construction.
type Result struct {
	Timestamp       time.Time
	ValidationID    string
	CompanyID       string
	CompanyName     string
	Industry        string
	Status          Status
	Compliance      ComplianceLevel
	Discrepancies   []Discrepancy
	Recommendations []string
	Anomalies       anomaly.Report
	// Variance and Threshold are retained raw for audit purposes.
	Variance  VarianceResult
	Threshold Classification
	// Reference is the registry record the run compared against, nil when
	// unavailable.
	Reference          *model.ReferenceEmissionsRecord
	Scores             Scores
	ReportingYear      int
	CalculationCount   int
	ReferenceAvailable bool
}

// HasSeverity reports whether any discrepancy carries the given severity.
func (r *Result) HasSeverity(severity model.Severity) bool {
	for i := range r.Discrepancies {
		if r.Discrepancies[i].Severity == severity {
			return true
		}
	}
	return false
}
