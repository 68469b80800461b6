package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/carbon-canary/internal/model"
)

func TestScoreConfidence(t *testing.T) {
	weights := DefaultConfig().Weights
	classifier := NewClassifier(DefaultConfig().Thresholds)

	classify := func(available bool, pct float64) Classification {
		return classifier.Classify(VarianceResult{Available: available, PercentageVariance: pct})
	}

	t.Run("clean run with small variance scores high", func(t *testing.T) {
		variance := AnalyzeVariance(
			model.EmissionsRecord{Scope1Total: 1000, Scope2Total: 500, CalculationCount: 12},
			&model.ReferenceEmissionsRecord{FacilityID: "fac-1", TotalTCO2e: 1450},
		)
		require.True(t, variance.Available)

		scores := ScoreConfidence(true, variance, 12, 2, classify(true, variance.PercentageVariance), weights)

		assert.InDelta(t, 100.0, scores.ReferenceAvailability, 0.001)
		assert.InDelta(t, 93.1, scores.Variance, 0.01)
		assert.InDelta(t, 100.0, scores.DataQuality, 0.001)
		assert.InDelta(t, 100.0, scores.Completeness, 0.001)
		assert.InDelta(t, 100.0, scores.Consistency, 0.001)
		assert.InDelta(t, 97.93, scores.Overall, 0.01)
		assert.Equal(t, "very_high", ConfidenceLevel(scores.Overall))
	})

	t.Run("unavailable reference forfeits exactly its weighted share", func(t *testing.T) {
		variance := AnalyzeVariance(model.EmissionsRecord{Scope1Total: 1000, Scope2Total: 500}, nil)

		scores := ScoreConfidence(false, variance, 12, 2, classify(false, 0), weights)

		assert.Zero(t, scores.ReferenceAvailability)
		assert.InDelta(t, 100.0, scores.Variance, 0.001, "missing variance is neutral, not a second penalty")
		assert.InDelta(t, 100.0, scores.Consistency, 0.001)
		assert.InDelta(t, 75.0, scores.Overall, 0.001)
		assert.Equal(t, "medium", ConfidenceLevel(scores.Overall))
	})

	t.Run("high variance drags variance and consistency components", func(t *testing.T) {
		variance := AnalyzeVariance(
			model.EmissionsRecord{Scope1Total: 1500, Scope2Total: 500, CalculationCount: 12},
			&model.ReferenceEmissionsRecord{FacilityID: "fac-1", TotalTCO2e: 1500},
		)
		require.InDelta(t, 33.333, variance.PercentageVariance, 0.001)

		scores := ScoreConfidence(true, variance, 12, 2, classify(true, variance.PercentageVariance), weights)

		assert.InDelta(t, 33.33, scores.Variance, 0.01)
		assert.InDelta(t, 40.0, scores.Consistency, 0.001)
		assert.InDelta(t, 74.0, scores.Overall, 0.01)
	})

	t.Run("variance penalty floors at zero", func(t *testing.T) {
		scores := ScoreConfidence(true,
			VarianceResult{Available: true, PercentageVariance: 80},
			12, 2, classify(true, 80), weights)

		assert.Zero(t, scores.Variance)
		assert.InDelta(t, 20.0, scores.Consistency, 0.001)
	})

	t.Run("data quality saturates at five calculations", func(t *testing.T) {
		variance := VarianceResult{Available: false}
		classification := classify(false, 0)

		three := ScoreConfidence(true, variance, 3, 2, classification, weights)
		five := ScoreConfidence(true, variance, 5, 2, classification, weights)
		twelve := ScoreConfidence(true, variance, 12, 2, classification, weights)

		assert.InDelta(t, 60.0, three.DataQuality, 0.001)
		assert.InDelta(t, 100.0, five.DataQuality, 0.001)
		assert.InDelta(t, 100.0, twelve.DataQuality, 0.001)
	})

	t.Run("completeness rewards each reported scope", func(t *testing.T) {
		variance := VarianceResult{Available: false}
		classification := classify(false, 0)

		none := ScoreConfidence(true, variance, 12, 0, classification, weights)
		one := ScoreConfidence(true, variance, 12, 1, classification, weights)
		both := ScoreConfidence(true, variance, 12, 2, classification, weights)

		assert.Zero(t, none.Completeness)
		assert.InDelta(t, 50.0, one.Completeness, 0.001)
		assert.InDelta(t, 100.0, both.Completeness, 0.001)
	})
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		want  string
		score float64
	}{
		{score: 95, want: "very_high"},
		{score: 90, want: "very_high"},
		{score: 89.99, want: "high"},
		{score: 80, want: "high"},
		{score: 75, want: "medium"},
		{score: 70, want: "medium"},
		{score: 65, want: "low"},
		{score: 60, want: "low"},
		{score: 59.99, want: "very_low"},
		{score: 0, want: "very_low"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceLevel(tt.score), "score %.2f", tt.score)
	}
}
