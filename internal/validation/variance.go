package validation

import (
	"math"

	"github.com/verdantis/carbon-canary/internal/model"
)

// Direction says which side of the reference total the company landed on.
type Direction string

const (
	// DirectionHigher means the company reported more than the registry.
	DirectionHigher Direction = "higher"
	// DirectionLower means the company reported less than the registry.
	DirectionLower Direction = "lower"
)

// ScopeVariance is the per-scope slice of a variance analysis. Available is
// false when the registry has no usable total for that scope.
type ScopeVariance struct {
	Scope              model.Scope
	CompanyTotal       float64
	ReferenceTotal     float64
	AbsoluteVariance   float64
	PercentageVariance float64
	Direction          Direction
	Available          bool
}

// VarianceResult is the outcome of comparing company totals against the
// registry. When Available is false the numeric fields are meaningless and
// Reason explains why; callers must check Available before reading them.
type VarianceResult struct {
	Reason             string
	PerScope           []ScopeVariance
	AbsoluteVariance   float64
	PercentageVariance float64
	CompanyTotal       float64
	ReferenceTotal     float64
	Direction          Direction
	Available          bool
}

// AnalyzeVariance compares a company's yearly record against the registry
// record. Pure function: no I/O, no side effects. A nil reference means the
// registry had nothing to compare against, which is a normal outcome.
func AnalyzeVariance(company model.EmissionsRecord, reference *model.ReferenceEmissionsRecord) VarianceResult {
	if reference == nil {
		return VarianceResult{
			Available: false,
			Reason:    "No registry data available for comparison",
		}
	}

	companyTotal := company.Total()
	referenceTotal := reference.TotalTCO2e
	if referenceTotal == 0 {
		// Percentage variance against zero is undefined; report why
		// instead of dividing.
		return VarianceResult{
			Available: false,
			Reason:    "Registry total is zero",
		}
	}

	result := VarianceResult{
		Available:          true,
		CompanyTotal:       companyTotal,
		ReferenceTotal:     referenceTotal,
		AbsoluteVariance:   math.Abs(companyTotal - referenceTotal),
		PercentageVariance: math.Abs(companyTotal-referenceTotal) / referenceTotal * 100,
		Direction:          direction(companyTotal, referenceTotal),
	}

	result.PerScope = []ScopeVariance{
		scopeVariance(model.ScopeOne, company.Scope1Total, reference.Scope1TCO2e),
		scopeVariance(model.ScopeTwo, company.Scope2Total, reference.Scope2TCO2e),
	}

	return result
}

func scopeVariance(scope model.Scope, companyTotal, referenceTotal float64) ScopeVariance {
	sv := ScopeVariance{
		Scope:          scope,
		CompanyTotal:   companyTotal,
		ReferenceTotal: referenceTotal,
	}
	if referenceTotal == 0 {
		return sv
	}
	sv.Available = true
	sv.AbsoluteVariance = math.Abs(companyTotal - referenceTotal)
	sv.PercentageVariance = sv.AbsoluteVariance / referenceTotal * 100
	sv.Direction = direction(companyTotal, referenceTotal)
	return sv
}

func direction(companyTotal, referenceTotal float64) Direction {
	if companyTotal > referenceTotal {
		return DirectionHigher
	}
	return DirectionLower
}
