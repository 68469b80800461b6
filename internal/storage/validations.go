package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verdantis/carbon-canary/internal/common"
	"github.com/verdantis/carbon-canary/internal/validation"
)

// SaveResult persists a completed validation result. The full result is
// stored as a JSON document; hot columns are duplicated for querying.
func (s *SQLiteStorage) SaveResult(ctx context.Context, result *validation.Result) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("%w: result", ErrNilParameter)
	}
	if err := validateString(result.ValidationID, "validationID"); err != nil {
		return err
	}

	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal validation result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validation_results
			(validation_id, company_id, reporting_year, status, compliance,
			 overall_score, reference_available, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(validation_id) DO UPDATE SET
			status = excluded.status,
			compliance = excluded.compliance,
			overall_score = excluded.overall_score,
			reference_available = excluded.reference_available,
			result = excluded.result
	`, result.ValidationID, result.CompanyID, result.ReportingYear,
		string(result.Status), string(result.Compliance),
		result.Scores.Overall, result.ReferenceAvailable, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save validation result %s: %w", result.ValidationID, err)
	}
	return nil
}

// GetResult returns a stored validation result by ID.
func (s *SQLiteStorage) GetResult(ctx context.Context, validationID string) (*validation.Result, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(validationID, "validationID"); err != nil {
		return nil, err
	}

	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM validation_results WHERE validation_id = ?`,
		validationID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("validation result %s: %w", validationID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get validation result %s: %w", validationID, err)
	}

	var result validation.Result
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation result %s: %w", validationID, err)
	}
	return &result, nil
}

// ListResults returns all stored results for a company, newest first.
func (s *SQLiteStorage) ListResults(ctx context.Context, companyID string) ([]validation.Result, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT result FROM validation_results
		WHERE company_id = ?
		ORDER BY created_at DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []validation.Result
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan validation result: %w", err)
		}
		var result validation.Result
		if err := json.Unmarshal([]byte(doc), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate validation results: %w", err)
	}
	return results, nil
}
