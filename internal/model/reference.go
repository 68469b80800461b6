package model

// VerificationStatus describes how a registry record was verified.
type VerificationStatus string

const (
	// VerificationSelfReported means the filer attested to the data itself.
	VerificationSelfReported VerificationStatus = "self_reported"
	// VerificationThirdParty means an independent verifier signed off.
	VerificationThirdParty VerificationStatus = "third_party_verified"
)

// QualityRating buckets reference data quality for reporting.
type QualityRating string

const (
	// RatingHigh is assigned at >=95% completeness.
	RatingHigh QualityRating = "high"
	// RatingMedium is assigned at >=80% completeness.
	RatingMedium QualityRating = "medium"
	// RatingLow is everything below.
	RatingLow QualityRating = "low"
)

// ReferenceDataQuality describes the quality of a registry record.
type ReferenceDataQuality struct {
	Verification      VerificationStatus
	MonitoringMethods []string
	CompletenessPct   float64
}

// Rating maps completeness to an overall quality rating.
func (q ReferenceDataQuality) Rating() QualityRating {
	switch {
	case q.CompletenessPct >= 95:
		return RatingHigh
	case q.CompletenessPct >= 80:
		return RatingMedium
	default:
		return RatingLow
	}
}

// ReferenceMatch is a candidate registry facility matched to a company,
// with the confidence score and the factors that produced it.
type ReferenceMatch struct {
	FacilityID     string
	FacilityName   string
	ParentCompany  string
	City           string
	State          string
	Sector         string
	MatchFactors   []string
	ReportingYears []int
	// Confidence is 0-100, capped.
	Confidence float64
}

// ReportedIn reports whether the facility filed for the given year.
func (m *ReferenceMatch) ReportedIn(year int) bool {
	for _, y := range m.ReportingYears {
		if y == year {
			return true
		}
	}
	return false
}

// ReferenceEmissionsRecord is a normalized emissions total retrieved from
// the EPA GHGRP registry for one facility and reporting year. Records are
// immutable once retrieved for a validation run. Absence of a record is a
// valid state and is represented by a nil pointer, never a zero value.
type ReferenceEmissionsRecord struct {
	FacilityID    string
	FacilityName  string
	Quality       ReferenceDataQuality
	ReportingYear int
	Scope1TCO2e   float64
	Scope2TCO2e   float64
	TotalTCO2e    float64
}
