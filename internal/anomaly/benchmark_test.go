package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/carbon-canary/internal/model"
)

func TestIndustryBenchmarkDetector(t *testing.T) {
	detector := NewIndustryBenchmarkDetector(DefaultConfig())

	company := func(industry string, revenue float64) *model.Company {
		return &model.Company{
			ID:               "company-1",
			Name:             "Acme Manufacturing Inc",
			Industry:         industry,
			AnnualRevenueUSD: revenue,
		}
	}

	t.Run("intensity on the benchmark is not flagged", func(t *testing.T) {
		// Manufacturing expects 0.15 tCO2e Scope 1 and 0.08 Scope 2 per
		// dollar of revenue.
		findings := detector.Detect(Input{
			Company: company("manufacturing", 10_000),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 1500, 800, 100, 100)},
		})

		assert.Empty(t, findings)
	})

	t.Run("intensity double the benchmark is critical", func(t *testing.T) {
		findings := detector.Detect(Input{
			Company: company("manufacturing", 10_000),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 3000, 800, 100, 100)},
		})

		require.Len(t, findings, 1)
		f := findings[0]
		assert.Equal(t, TypeIndustryBenchmarkDeviation, f.Type)
		assert.Equal(t, model.SeverityCritical, f.Severity, "1.0 deviation is past 3x the 0.3 threshold")
		assert.Equal(t, "Scope 1 emissions intensity deviates 100.0% from industry benchmark", f.Description)
		assert.InDelta(t, 0.75, f.Confidence, 0.001)
		require.NotNil(t, f.Benchmark)
		assert.Equal(t, model.ScopeOne, f.Benchmark.Scope)
		assert.Equal(t, "manufacturing", f.Benchmark.Industry)
		assert.InDelta(t, 0.15, f.Benchmark.Benchmark, 0.001)
		assert.InDelta(t, 0.30, f.Benchmark.Intensity, 0.001)
		assert.InDelta(t, 1.0, f.Benchmark.Deviation, 0.001)
	})

	t.Run("intensity far below the benchmark is also flagged", func(t *testing.T) {
		findings := detector.Detect(Input{
			Company: company("manufacturing", 10_000),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 750, 800, 100, 100)},
		})

		require.Len(t, findings, 1)
		assert.InDelta(t, 0.5, findings[0].Benchmark.Deviation, 0.001)
		assert.Equal(t, model.SeverityMedium, findings[0].Severity)
	})

	t.Run("unknown industry falls back to the default benchmark", func(t *testing.T) {
		// Default expects 0.10 Scope 1 per dollar; 0.30 is a 2.0 deviation.
		findings := detector.Detect(Input{
			Company: company("aerospace", 10_000),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 3000, 800, 100, 100)},
		})

		require.Len(t, findings, 1)
		assert.Equal(t, "default", findings[0].Benchmark.Industry)
		assert.InDelta(t, 2.0, findings[0].Benchmark.Deviation, 0.001)
	})

	t.Run("industry lookup is case insensitive", func(t *testing.T) {
		findings := detector.Detect(Input{
			Company: company("Manufacturing", 10_000),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 3000, 800, 100, 100)},
		})

		require.Len(t, findings, 1)
		assert.Equal(t, "manufacturing", findings[0].Benchmark.Industry)
	})

	t.Run("unknown revenue skips the company entirely", func(t *testing.T) {
		findings := detector.Detect(Input{
			Company: company("manufacturing", 0),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 3000, 800, 100, 100)},
		})

		assert.Empty(t, findings, "the detector never substitutes a placeholder revenue")
	})

	t.Run("nil company skips detection", func(t *testing.T) {
		findings := detector.Detect(Input{
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 3000, 800, 100, 100)},
		})

		assert.Empty(t, findings)
	})

	t.Run("both scopes can deviate", func(t *testing.T) {
		findings := detector.Detect(Input{
			Company: company("manufacturing", 10_000),
			Year:    2023,
			Current: []model.EmissionsCalculation{calc("c1", 2023, time.January, 3000, 1600, 100, 100)},
		})

		require.Len(t, findings, 2)
		assert.Equal(t, model.ScopeOne, findings[0].Benchmark.Scope)
		assert.Equal(t, model.ScopeTwo, findings[1].Benchmark.Scope)
	})
}
