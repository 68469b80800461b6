// Package anomaly implements statistical and rule-based anomaly detection
// for company emissions data: year-over-year variance, same-month
// statistical outliers, industry benchmark deviation, and operational
// data consistency checks.
package anomaly

import (
	"time"

	"github.com/verdantis/carbon-canary/internal/model"
)

// Type identifies the kind of anomaly a detector produces.
type Type string

const (
	// TypeYearOverYearVariance flags large swings against the prior year.
	TypeYearOverYearVariance Type = "year_over_year_variance"
	// TypeStatisticalOutlier flags same-month z-score outliers.
	TypeStatisticalOutlier Type = "statistical_outlier"
	// TypeIndustryBenchmarkDeviation flags emissions intensity far from
	// the industry norm.
	TypeIndustryBenchmarkDeviation Type = "industry_benchmark_deviation"
	// TypeOperationalInconsistency flags emissions with no backing
	// activity data.
	TypeOperationalInconsistency Type = "operational_data_inconsistency"
)

// YoYDetail carries the evidence behind a year-over-year finding.
type YoYDetail struct {
	Scope         model.Scope
	Current       float64
	Previous      float64
	VarianceRatio float64
}

// OutlierDetail carries the statistics behind an outlier finding.
type OutlierDetail struct {
	Scope         model.Scope
	CalculationID string
	Month         time.Month
	ZScore        float64
	Mean          float64
	StdDev        float64
}

// BenchmarkDetail carries the intensity comparison behind a benchmark finding.
type BenchmarkDetail struct {
	Scope     model.Scope
	Industry  string
	Benchmark float64
	Intensity float64
	Deviation float64
}

// InconsistencyDetail carries the cross-field evidence behind an
// operational inconsistency finding.
type InconsistencyDetail struct {
	Scope         model.Scope
	CalculationID string
	Emissions     float64
	Activity      float64
}

// Finding is a single detected anomaly. Immutable once produced.
// Exactly one of the detail pointers is set, matching Type.
type Finding struct {
	YoY             *YoYDetail
	Outlier         *OutlierDetail
	Benchmark       *BenchmarkDetail
	Inconsistency   *InconsistencyDetail
	Type            Type
	Severity        model.Severity
	Description     string
	Recommendations []string
	DetectedValue   float64
	ExpectedLow     float64
	ExpectedHigh    float64
	// Confidence is the detector's confidence in the finding, 0-1.
	Confidence float64
}

// Input is everything a detector may inspect. Detectors are stateless and
// never mutate it, so the same Input can be fed to all of them, in any
// order or concurrently.
type Input struct {
	Company    *model.Company
	Current    []model.EmissionsCalculation
	Historical []model.EmissionsCalculation
	Year       int
}

// Detector inspects one aspect of the input and reports findings.
// Detecting nothing is a normal outcome, not an error.
type Detector interface {
	Name() string
	Detect(input Input) []Finding
}

// bandSeverity maps how far a deviation sits past its base threshold to a
// severity, using escalating multiples of the threshold. All detectors
// share this banding so severities mean the same thing across types.
func bandSeverity(deviation, threshold float64) model.Severity {
	switch {
	case deviation < threshold*1.5:
		return model.SeverityLow
	case deviation < threshold*2.0:
		return model.SeverityMedium
	case deviation < threshold*3.0:
		return model.SeverityHigh
	default:
		return model.SeverityCritical
	}
}

// sumScope totals one scope across calculations.
func sumScope(calcs []model.EmissionsCalculation, scope model.Scope) float64 {
	var total float64
	for i := range calcs {
		switch scope {
		case model.ScopeOne:
			total += calcs[i].Scope1TCO2e
		case model.ScopeTwo:
			total += calcs[i].Scope2TCO2e
		}
	}
	return total
}
