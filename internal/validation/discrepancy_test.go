package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/carbon-canary/internal/model"
)

func TestDetectDiscrepancies(t *testing.T) {
	thresholds := DefaultConfig().Thresholds

	t.Run("variance within threshold produces nothing", func(t *testing.T) {
		variance := VarianceResult{Available: true, PercentageVariance: 3.45}

		got := detectDiscrepancies(variance, thresholds)

		assert.Empty(t, got)
	})

	t.Run("variance past threshold produces one finding", func(t *testing.T) {
		variance := VarianceResult{Available: true, PercentageVariance: 33.3}

		got := detectDiscrepancies(variance, thresholds)

		require.Len(t, got, 1)
		d := got[0]
		assert.Equal(t, KindVarianceThresholdExceeded, d.Kind)
		assert.Equal(t, CategoryVarianceAnalysis, d.Category)
		assert.Equal(t, model.SeverityHigh, d.Severity)
		assert.Equal(t, "Emissions variance of 33.3% exceeds high threshold", d.Description)
		assert.Equal(t, "variance_analysis", d.Source)
		require.NotNil(t, d.Variance)
		assert.InDelta(t, 33.3, d.Variance.PercentageVariance, 0.001)
		assert.Equal(t, LevelHigh, d.Variance.Level)
	})

	t.Run("unavailable variance produces nothing", func(t *testing.T) {
		variance := VarianceResult{Available: false, PercentageVariance: 99}

		got := detectDiscrepancies(variance, thresholds)

		assert.Empty(t, got)
	})
}

func TestNoCalculationsDiscrepancy(t *testing.T) {
	got := noCalculationsDiscrepancy()

	assert.Equal(t, KindNoCalculations, got.Kind)
	assert.Equal(t, CategoryDataCompleteness, got.Category)
	assert.Equal(t, model.SeverityCritical, got.Severity)
	assert.Equal(t, "No emissions calculations found for the reporting year", got.Description)
	assert.Equal(t, "data_completeness_check", got.Source)
}

func TestInvalidInputDiscrepancy(t *testing.T) {
	got := invalidInputDiscrepancy("calc-7", errors.New("emissions totals must be non-negative"))

	assert.Equal(t, KindInvalidInput, got.Kind)
	assert.Equal(t, CategoryDataQuality, got.Category)
	assert.Equal(t, model.SeverityCritical, got.Severity)
	assert.Contains(t, got.Description, "emissions totals must be non-negative")
	require.NotNil(t, got.Input)
	assert.Equal(t, "calc-7", got.Input.CalculationID)
}

func TestGenerateRecommendations(t *testing.T) {
	t.Run("clean result gets only the standing advice", func(t *testing.T) {
		result := &Result{
			Scores:             Scores{Overall: 95, Completeness: 100, Consistency: 100},
			ReferenceAvailable: true,
		}

		got := generateRecommendations(result, 10)

		assert.Equal(t, []string{
			"Maintain comprehensive audit trail for all emissions calculations",
			"Regular validation against the EPA GHGRP database recommended",
		}, got)
	})

	t.Run("troubled result accumulates targeted advice in order", func(t *testing.T) {
		result := &Result{
			Discrepancies: discrepanciesWith(model.SeverityCritical, model.SeverityHigh),
			Scores:        Scores{Overall: 55, Completeness: 50, Consistency: 40},
		}

		got := generateRecommendations(result, 10)

		assert.Equal(t, []string{
			"Address critical discrepancies immediately before SEC filing",
			"Review and resolve high-severity discrepancies",
			"Improve data quality and validation processes",
			"Ensure all emission scopes are properly calculated and documented",
			"Review calculation methodology for consistency with EPA standards",
			"No registry record was available; corroborate totals with an independent source",
			"Maintain comprehensive audit trail for all emissions calculations",
			"Regular validation against the EPA GHGRP database recommended",
		}, got)
	})

	t.Run("list is capped at the configured maximum", func(t *testing.T) {
		result := &Result{
			Discrepancies: discrepanciesWith(model.SeverityCritical, model.SeverityHigh),
			Scores:        Scores{Overall: 55, Completeness: 50, Consistency: 40},
		}

		got := generateRecommendations(result, 3)

		assert.Len(t, got, 3)
		assert.Equal(t, "Address critical discrepancies immediately before SEC filing", got[0])
	})
}
