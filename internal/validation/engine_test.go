package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/carbon-canary/internal/common"
	"github.com/verdantis/carbon-canary/internal/model"
	"github.com/verdantis/carbon-canary/internal/service"
)

// mockStorage is an in-memory service.Storage for engine tests.
type mockStorage struct {
	companies    map[string]*model.Company
	calculations map[string][]model.EmissionsCalculation
	getCalcsErr  error
	mu           sync.Mutex
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		companies:    make(map[string]*model.Company),
		calculations: make(map[string][]model.EmissionsCalculation),
	}
}

func (m *mockStorage) SaveCompany(_ context.Context, company *model.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[company.ID] = company
	return nil
}

func (m *mockStorage) GetCompany(_ context.Context, id string) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.companies[id], nil
}

func (m *mockStorage) ListCompanies(_ context.Context) ([]model.Company, error) {
	return nil, nil
}

func (m *mockStorage) SaveCalculations(_ context.Context, calcs []model.EmissionsCalculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range calcs {
		m.calculations[c.CompanyID] = append(m.calculations[c.CompanyID], c)
	}
	return nil
}

func (m *mockStorage) GetCalculationsByYear(_ context.Context, companyID string, year int) ([]model.EmissionsCalculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getCalcsErr != nil {
		return nil, m.getCalcsErr
	}
	var out []model.EmissionsCalculation
	for _, c := range m.calculations[companyID] {
		if c.Year() == year {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStorage) GetCalculationsInRange(_ context.Context, companyID string, fromYear, toYear int) ([]model.EmissionsCalculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.EmissionsCalculation
	for _, c := range m.calculations[companyID] {
		if c.Year() >= fromYear && c.Year() <= toYear {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }
func (m *mockStorage) Close() error                    { return nil }

// mockGateway is a canned service.ReferenceGateway.
type mockGateway struct {
	searchErr    error
	emissionsErr error
	record       *model.ReferenceEmissionsRecord
	matches      []model.ReferenceMatch
	searchCalls  int
}

func (m *mockGateway) Search(_ context.Context, _ *model.Company, _ int) ([]model.ReferenceMatch, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches, nil
}

func (m *mockGateway) GetEmissions(_ context.Context, _ string, _ int) (*model.ReferenceEmissionsRecord, error) {
	if m.emissionsErr != nil {
		return nil, m.emissionsErr
	}
	return m.record, nil
}

// mockAudit records audit events in memory.
type mockAudit struct {
	events []service.AuditEvent
	err    error
	mu     sync.Mutex
}

func (m *mockAudit) LogEvent(_ context.Context, event service.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockAudit) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// mockResults records persisted results in memory.
type mockResults struct {
	saved []*Result
	err   error
	mu    sync.Mutex
}

func (m *mockResults) SaveResult(_ context.Context, result *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, result)
	return nil
}

func monthlyCalculations(companyID string, year, months int, scope1, scope2 float64) []model.EmissionsCalculation {
	calcs := make([]model.EmissionsCalculation, 0, months)
	for m := 1; m <= months; m++ {
		start := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		calcs = append(calcs, model.EmissionsCalculation{
			ID:                     fmt.Sprintf("%s-%d-%02d", companyID, year, m),
			CompanyID:              companyID,
			PeriodStart:            start,
			PeriodEnd:              start.AddDate(0, 1, -1),
			Scope1TCO2e:            scope1,
			Scope2TCO2e:            scope2,
			FuelConsumption:        scope1 * 10,
			ElectricityConsumption: scope2 * 20,
		})
	}
	return calcs
}

type engineFixture struct {
	engine  *Engine
	storage *mockStorage
	gateway *mockGateway
	audit   *mockAudit
	results *mockResults
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{
		storage: newMockStorage(),
		gateway: &mockGateway{},
		audit:   &mockAudit{},
		results: &mockResults{},
	}

	engine, err := NewEngine(Deps{
		Storage: f.storage,
		Gateway: f.gateway,
		Audit:   f.audit,
		Results: f.results,
	}, DefaultConfig())
	require.NoError(t, err)

	f.engine = engine
	return f
}

func (f *engineFixture) seedCompany(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.storage.SaveCompany(context.Background(), &model.Company{
		ID:                  id,
		Name:                "Acme Manufacturing Inc",
		Industry:            "manufacturing",
		Sector:              "power_plants",
		HeadquartersCountry: "United States",
		AnnualRevenueUSD:    10_000_000,
	}))
}

func TestNewEngine(t *testing.T) {
	t.Run("rejects missing dependencies", func(t *testing.T) {
		_, err := NewEngine(Deps{}, DefaultConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage dependency is required")
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Thresholds.Low = -1
		_, err := NewEngine(Deps{
			Storage: newMockStorage(),
			Gateway: &mockGateway{},
			Audit:   &mockAudit{},
			Results: &mockResults{},
		}, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestEngine_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("clean run against matching registry record passes", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 100, 50)))

		f.gateway.matches = []model.ReferenceMatch{{FacilityID: "fac-1", FacilityName: "Acme Plant", Confidence: 90}}
		f.gateway.record = &model.ReferenceEmissionsRecord{
			FacilityID:    "fac-1",
			ReportingYear: 2023,
			Scope1TCO2e:   1200,
			Scope2TCO2e:   600,
			TotalTCO2e:    1800,
		}

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.Equal(t, StatusPassed, result.Status)
		assert.Equal(t, ComplianceCompliant, result.Compliance)
		assert.True(t, result.ReferenceAvailable)
		assert.Equal(t, 12, result.CalculationCount)
		assert.Empty(t, result.Discrepancies)
		assert.Zero(t, result.Variance.PercentageVariance)
		assert.Equal(t, LevelAcceptable, result.Threshold.Level)
		assert.NotEmpty(t, result.ValidationID)
		assert.Equal(t, "Acme Manufacturing Inc", result.CompanyName)

		require.Len(t, f.results.saved, 1)
		assert.Same(t, result, f.results.saved[0])
		assert.Equal(t, []string{"EMISSIONS_VALIDATION_COMPLETED"}, f.audit.eventTypes())
	})

	t.Run("unknown company is an error", func(t *testing.T) {
		f := newEngineFixture(t)

		_, err := f.engine.Validate(ctx, "ghost", 2023)

		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Equal(t, []string{"EMISSIONS_VALIDATION_ERROR"}, f.audit.eventTypes())
		assert.Empty(t, f.results.saved)
	})

	t.Run("storage failure is an error", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		f.storage.getCalcsErr = errors.New("database is locked")

		_, err := f.engine.Validate(ctx, "company-1", 2023)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load calculations")
	})

	t.Run("no calculations short-circuits to a persisted failed result", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.Equal(t, StatusFailed, result.Status)
		assert.Equal(t, ComplianceNonCompliant, result.Compliance)
		require.Len(t, result.Discrepancies, 1)
		assert.Equal(t, KindNoCalculations, result.Discrepancies[0].Kind)
		assert.Equal(t, []string{"No emissions calculations found for validation"}, result.Recommendations)
		assert.Equal(t, []string{"No emissions data available for analysis"}, result.Anomalies.Insights)

		require.Len(t, f.results.saved, 1)
		assert.Zero(t, f.gateway.searchCalls, "registry is not consulted when there is nothing to validate")
	})

	t.Run("malformed calculations are rejected and reported", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")

		calcs := monthlyCalculations("company-1", 2023, 12, 100, 50)
		calcs[3].Scope1TCO2e = -10
		require.NoError(t, f.storage.SaveCalculations(ctx, calcs))

		f.gateway.matches = []model.ReferenceMatch{{FacilityID: "fac-1"}}
		f.gateway.record = &model.ReferenceEmissionsRecord{
			FacilityID: "fac-1",
			TotalTCO2e: 1650, // 11 valid months of 150
		}

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.Equal(t, 11, result.CalculationCount)
		assert.Equal(t, StatusFailed, result.Status, "rejected input is a critical discrepancy")
		assert.Equal(t, ComplianceNonCompliant, result.Compliance)

		var invalid []Discrepancy
		for _, d := range result.Discrepancies {
			if d.Kind == KindInvalidInput {
				invalid = append(invalid, d)
			}
		}
		require.Len(t, invalid, 1)
		assert.Equal(t, calcs[3].ID, invalid[0].Input.CalculationID)
	})

	t.Run("all calculations malformed falls back to the failed result", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")

		calcs := monthlyCalculations("company-1", 2023, 2, 100, 50)
		calcs[0].Scope1TCO2e = -1
		calcs[1].Scope2TCO2e = -1
		require.NoError(t, f.storage.SaveCalculations(ctx, calcs))

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.Equal(t, StatusFailed, result.Status)
		assert.Len(t, result.Discrepancies, 3, "two rejected inputs plus the no-calculations finding")
	})

	t.Run("registry search failure degrades to reference unavailable", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 100, 50)))
		f.gateway.searchErr = common.ErrRegistryUnavailable

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err, "registry outage must never fail a run")

		assert.False(t, result.ReferenceAvailable)
		assert.Nil(t, result.Reference)
		assert.False(t, result.Variance.Available)
		assert.InDelta(t, 75.0, result.Scores.Overall, 0.001)
		assert.Equal(t, StatusWarning, result.Status)
		assert.Equal(t, ComplianceNeedsReview, result.Compliance)
		assert.Contains(t, result.Recommendations,
			"No registry record was available; corroborate totals with an independent source")
	})

	t.Run("facility that did not report degrades the same way", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 100, 50)))
		f.gateway.matches = []model.ReferenceMatch{{FacilityID: "fac-1"}}
		f.gateway.record = nil // (nil, nil): matched facility filed nothing for the year

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.False(t, result.ReferenceAvailable)
		assert.False(t, result.Variance.Available)
	})

	t.Run("large variance produces a failing, non-compliant result", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 100, 50)))

		f.gateway.matches = []model.ReferenceMatch{{FacilityID: "fac-1"}}
		f.gateway.record = &model.ReferenceEmissionsRecord{
			FacilityID: "fac-1",
			TotalTCO2e: 900, // company total 1800: 100% variance
		}

		result, err := f.engine.Validate(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.Equal(t, LevelCritical, result.Threshold.Level)
		assert.Equal(t, "immediate_action", result.Threshold.Risk.Action)
		assert.Equal(t, StatusFailed, result.Status)
		assert.Equal(t, ComplianceNonCompliant, result.Compliance)
		assert.True(t, result.HasSeverity(model.SeverityCritical))
	})

	t.Run("audit sink failure does not fail the run", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 100, 50)))
		f.audit.err = errors.New("audit store unreachable")

		result, err := f.engine.Validate(ctx, "company-1", 2023)

		require.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("result store failure is an error", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 100, 50)))
		f.results.err = errors.New("disk full")

		_, err := f.engine.Validate(ctx, "company-1", 2023)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to persist validation result")
	})
}

func TestEngine_DetectAnomalies(t *testing.T) {
	ctx := context.Background()

	t.Run("reports across current and historical data", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedCompany(t, "company-1")
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2022, 12, 100, 50)))
		// Scope 1 doubles year over year.
		require.NoError(t, f.storage.SaveCalculations(ctx,
			monthlyCalculations("company-1", 2023, 12, 200, 50)))

		report, err := f.engine.DetectAnomalies(ctx, "company-1", 2023)
		require.NoError(t, err)

		assert.Equal(t, "company-1", report.CompanyID)
		assert.Equal(t, 2023, report.ReportingYear)
		assert.NotZero(t, report.TotalAnomalies)
	})

	t.Run("unknown company is an error", func(t *testing.T) {
		f := newEngineFixture(t)

		_, err := f.engine.DetectAnomalies(ctx, "ghost", 2023)

		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestEngine_ValidateBatch(t *testing.T) {
	ctx := context.Background()

	seed := func(f *engineFixture, ids ...string) {
		for _, id := range ids {
			f.seedCompany(t, id)
			require.NoError(t, f.storage.SaveCalculations(ctx,
				monthlyCalculations(id, 2023, 12, 100, 50)))
		}
	}

	t.Run("results preserve request order", func(t *testing.T) {
		f := newEngineFixture(t)
		ids := []string{"company-1", "company-2", "company-3", "company-4"}
		seed(f, ids...)

		batch := f.engine.ValidateBatch(ctx, ids, 2023, 3, nil)

		require.Len(t, batch.Results, len(ids))
		assert.Empty(t, batch.Errors)
		for i, id := range ids {
			assert.Equal(t, id, batch.Results[i].CompanyID)
		}
	})

	t.Run("one failing company never aborts the rest", func(t *testing.T) {
		f := newEngineFixture(t)
		seed(f, "company-1", "company-3")

		batch := f.engine.ValidateBatch(ctx, []string{"company-1", "ghost", "company-3"}, 2023, 2, nil)

		require.Len(t, batch.Results, 2)
		assert.Equal(t, "company-1", batch.Results[0].CompanyID)
		assert.Equal(t, "company-3", batch.Results[1].CompanyID)
		require.Len(t, batch.Errors, 1)
		assert.Equal(t, "ghost", batch.Errors[0].CompanyID)
		assert.ErrorIs(t, batch.Errors[0].Err, common.ErrNotFound)
	})

	t.Run("progress fires once per company", func(t *testing.T) {
		f := newEngineFixture(t)
		ids := []string{"company-1", "company-2", "company-3"}
		seed(f, ids...)

		var mu sync.Mutex
		ticks := 0
		f.engine.ValidateBatch(ctx, ids, 2023, 1, func() {
			mu.Lock()
			ticks++
			mu.Unlock()
		})

		assert.Equal(t, len(ids), ticks)
	})

	t.Run("zero concurrency is clamped to one", func(t *testing.T) {
		f := newEngineFixture(t)
		seed(f, "company-1")

		batch := f.engine.ValidateBatch(ctx, []string{"company-1"}, 2023, 0, nil)

		assert.Len(t, batch.Results, 1)
	})
}
