package validation

import "math"

// Scores are the component confidence scores, each 0-100, plus the
// weighted overall score.
type Scores struct {
	Overall               float64
	DataQuality           float64
	Consistency           float64
	Completeness          float64
	ReferenceAvailability float64
	Variance              float64
}

// ScoreConfidence computes the weighted confidence breakdown for a run.
// Pure function. Unavailable sub-inputs fall back to their neutral
// defaults: a missing variance scores 100 (absence of contradicting data is
// not itself an inconsistency; the availability component already carries
// that penalty), and an unavailable threshold classification leaves
// consistency at 100.
func ScoreConfidence(referenceAvailable bool, variance VarianceResult, calculationCount, scopeCount int, classification Classification, weights Weights) Scores {
	referenceScore := 0.0
	if referenceAvailable {
		referenceScore = 100.0
	}

	varianceScore := 100.0
	if variance.Available {
		// 2 points of penalty per 1% of variance.
		varianceScore = math.Max(0, 100-variance.PercentageVariance*2)
	}

	// Each calculation is corroborating evidence, saturating at five.
	dataQualityScore := math.Min(100, float64(calculationCount)*20)

	// Reporting both scopes is full completeness.
	completenessScore := math.Min(100, float64(scopeCount)*50)

	consistencyScore := 100.0
	if classification.Available {
		switch classification.Level {
		case LevelCritical:
			consistencyScore = 20.0
		case LevelHigh:
			consistencyScore = 40.0
		case LevelMedium:
			consistencyScore = 70.0
		case LevelLow:
			consistencyScore = 85.0
		case LevelAcceptable:
			consistencyScore = 100.0
		}
	}

	overall := referenceScore*weights.ReferenceAvailability +
		varianceScore*weights.Variance +
		dataQualityScore*weights.DataQuality +
		completenessScore*weights.Completeness +
		consistencyScore*weights.Consistency

	return Scores{
		Overall:               round2(overall),
		DataQuality:           round2(dataQualityScore),
		Consistency:           round2(consistencyScore),
		Completeness:          round2(completenessScore),
		ReferenceAvailability: round2(referenceScore),
		Variance:              round2(varianceScore),
	}
}

// ConfidenceLevel labels an overall score for executive reporting.
func ConfidenceLevel(score float64) string {
	switch {
	case score >= 90:
		return "very_high"
	case score >= 80:
		return "high"
	case score >= 70:
		return "medium"
	case score >= 60:
		return "low"
	default:
		return "very_low"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
