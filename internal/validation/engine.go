package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdantis/carbon-canary/internal/anomaly"
	"github.com/verdantis/carbon-canary/internal/common"
	"github.com/verdantis/carbon-canary/internal/model"
	"github.com/verdantis/carbon-canary/internal/service"
)

// ResultStore persists completed validation results for the audit layer.
type ResultStore interface {
	SaveResult(ctx context.Context, result *Result) error
}

// Deps contains all dependencies required by the validation engine.
type Deps struct {
	// Storage provides company and calculation data.
	Storage service.Storage
	// Gateway provides access to the external emissions registry.
	Gateway service.ReferenceGateway
	// Audit records validation events.
	Audit service.AuditSink
	// Results persists completed validation results.
	Results ResultStore
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Storage == nil {
		return fmt.Errorf("storage dependency is required")
	}
	if d.Gateway == nil {
		return fmt.Errorf("reference gateway dependency is required")
	}
	if d.Audit == nil {
		return fmt.Errorf("audit sink dependency is required")
	}
	if d.Results == nil {
		return fmt.Errorf("result store dependency is required")
	}
	return nil
}

// Engine orchestrates a validation run: fetch company data, cross-validate
// against the registry, detect anomalies, score, classify, and assemble the
// result. Each run is independent; the engine holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	deps       Deps
	classifier *Classifier
	anomalies  *anomaly.Service
	cfg        Config
}

// NewEngine creates a validation engine from validated dependencies and
// configuration.
func NewEngine(deps Deps, cfg Config) (*Engine, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	detectors, err := anomaly.NewService(cfg.Anomaly)
	if err != nil {
		return nil, fmt.Errorf("invalid anomaly configuration: %w", err)
	}
	return &Engine{
		deps:       deps,
		cfg:        cfg,
		classifier: NewClassifier(cfg.Thresholds),
		anomalies:  detectors,
	}, nil
}

// Validate runs the full pipeline for one company and reporting year.
//
// Missing calculations are a reportable compliance finding, not an error:
// the run short-circuits to a failed Result. Registry unavailability is
// scored, not fatal. Only infrastructure failures (storage unreachable, a
// missing company) return an error.
func (e *Engine) Validate(ctx context.Context, companyID string, year int) (*Result, error) {
	stage := StageStarted
	slog.Info("Starting emissions validation",
		"company_id", companyID,
		"reporting_year", year)

	result, err := e.run(ctx, &stage, companyID, year)
	if err != nil {
		stage = StageFailed
		e.auditEvent(ctx, "EMISSIONS_VALIDATION_ERROR", map[string]any{
			"company_id":     companyID,
			"reporting_year": year,
			"stage":          string(stage),
			"error":          err.Error(),
		})
		return nil, err
	}

	e.auditEvent(ctx, "EMISSIONS_VALIDATION_COMPLETED", map[string]any{
		"validation_id":       result.ValidationID,
		"company_id":          companyID,
		"reporting_year":      year,
		"validation_status":   string(result.Status),
		"confidence_score":    result.Scores.Overall,
		"discrepancies_count": len(result.Discrepancies),
	})
	return result, nil
}

func (e *Engine) run(ctx context.Context, stage *Stage, companyID string, year int) (*Result, error) {
	company, err := e.deps.Storage.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", companyID, err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %s: %w", companyID, common.ErrNotFound)
	}

	result := &Result{
		ValidationID:  uuid.New().String(),
		CompanyID:     companyID,
		CompanyName:   company.Name,
		Industry:      company.Industry,
		ReportingYear: year,
		Timestamp:     time.Now().UTC(),
		Status:        StatusPending,
	}

	// STARTED -> DATA_FETCHED
	calcs, err := e.deps.Storage.GetCalculationsByYear(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load calculations: %w", err)
	}
	*stage = StageDataFetched

	// Malformed calculations are rejected before any detector runs and
	// reported as critical data-quality discrepancies.
	valid := calcs[:0:0]
	for i := range calcs {
		if verr := calcs[i].Validate(); verr != nil {
			result.Discrepancies = append(result.Discrepancies,
				invalidInputDiscrepancy(calcs[i].ID, verr))
			continue
		}
		valid = append(valid, calcs[i])
	}

	if len(valid) == 0 {
		return e.failNoCalculations(ctx, result)
	}

	record := model.Aggregate(companyID, year, valid)
	result.CalculationCount = record.CalculationCount

	// DATA_FETCHED -> CROSS_VALIDATED
	reference := e.fetchReference(ctx, company, year)
	result.Reference = reference
	result.ReferenceAvailable = reference != nil
	result.Variance = AnalyzeVariance(record, reference)
	result.Threshold = e.classifier.Classify(result.Variance)
	*stage = StageCrossValidated

	// CROSS_VALIDATED -> SCORED
	historical, err := e.deps.Storage.GetCalculationsInRange(ctx, companyID, year-e.cfg.HistoricalYears, year-1)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical calculations: %w", err)
	}
	result.Anomalies = e.anomalies.Run(anomaly.Input{
		Company:    company,
		Year:       year,
		Current:    valid,
		Historical: historical,
	})
	result.Discrepancies = append(result.Discrepancies,
		detectDiscrepancies(result.Variance, e.cfg.Thresholds)...)
	result.Scores = ScoreConfidence(result.ReferenceAvailable, result.Variance,
		record.CalculationCount, record.ScopeCount(), result.Threshold, e.cfg.Weights)
	*stage = StageScored

	// SCORED -> CLASSIFIED
	result.Status = DetermineStatus(result.Scores, result.Discrepancies)
	result.Compliance = DetermineCompliance(result.Scores, result.Discrepancies)
	*stage = StageClassified

	// CLASSIFIED -> COMPLETE
	result.Recommendations = generateRecommendations(result, e.cfg.MaxRecommendations)
	if err := e.deps.Results.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist validation result: %w", err)
	}
	*stage = StageComplete

	slog.Info("Emissions validation complete",
		"validation_id", result.ValidationID,
		"status", string(result.Status),
		"compliance", string(result.Compliance),
		"overall_score", result.Scores.Overall,
		"discrepancies", len(result.Discrepancies),
		"anomalies", result.Anomalies.TotalAnomalies)
	return result, nil
}

// failNoCalculations finalizes the short-circuit result for a year with no
// valid calculations. The result is still persisted; it is a finding.
func (e *Engine) failNoCalculations(ctx context.Context, result *Result) (*Result, error) {
	result.Status = StatusFailed
	result.Compliance = ComplianceNonCompliant
	result.Discrepancies = append(result.Discrepancies, noCalculationsDiscrepancy())
	result.Recommendations = append(result.Recommendations,
		"No emissions calculations found for validation")
	result.Anomalies = anomaly.Report{
		CompanyID:     result.CompanyID,
		ReportingYear: result.ReportingYear,
		AnalysisDate:  result.Timestamp,
		BySeverity: map[model.Severity]int{
			model.SeverityLow: 0, model.SeverityMedium: 0,
			model.SeverityHigh: 0, model.SeverityCritical: 0,
		},
		Insights: []string{"No emissions data available for analysis"},
	}
	if err := e.deps.Results.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist validation result: %w", err)
	}
	slog.Warn("No calculations found for validation",
		"company_id", result.CompanyID,
		"reporting_year", result.ReportingYear)
	return result, nil
}

// fetchReference resolves the best registry match and loads its emissions.
// Every failure path degrades to "reference unavailable": absence of
// third-party corroboration is scored, never fatal.
func (e *Engine) fetchReference(ctx context.Context, company *model.Company, year int) *model.ReferenceEmissionsRecord {
	matches, err := e.deps.Gateway.Search(ctx, company, year)
	if err != nil {
		slog.Warn("Registry search failed, continuing without reference data",
			"company_id", company.ID, "error", err)
		return nil
	}
	if len(matches) == 0 {
		slog.Info("No registry match for company", "company_id", company.ID)
		return nil
	}

	best := matches[0]
	record, err := e.deps.Gateway.GetEmissions(ctx, best.FacilityID, year)
	if err != nil {
		slog.Warn("Registry fetch failed, continuing without reference data",
			"company_id", company.ID, "facility_id", best.FacilityID, "error", err)
		return nil
	}
	return record
}

// DetectAnomalies runs only the anomaly pipeline for a company and year.
func (e *Engine) DetectAnomalies(ctx context.Context, companyID string, year int) (*anomaly.Report, error) {
	company, err := e.deps.Storage.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", companyID, err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %s: %w", companyID, common.ErrNotFound)
	}

	current, err := e.deps.Storage.GetCalculationsByYear(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load calculations: %w", err)
	}
	historical, err := e.deps.Storage.GetCalculationsInRange(ctx, companyID, year-e.cfg.HistoricalYears, year-1)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical calculations: %w", err)
	}

	report := e.anomalies.Run(anomaly.Input{
		Company:    company,
		Year:       year,
		Current:    current,
		Historical: historical,
	})
	return &report, nil
}

// auditEvent writes to the audit sink, falling back to local logging when
// the sink is unreachable; audit failures never fail a run.
func (e *Engine) auditEvent(ctx context.Context, eventType string, details map[string]any) {
	event := service.AuditEvent{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Actor:     "system",
		Details:   details,
	}
	if err := e.deps.Audit.LogEvent(ctx, event); err != nil {
		slog.Warn("Audit sink unreachable, logging event locally",
			"event_type", eventType,
			"details", details,
			"error", err)
	}
}
