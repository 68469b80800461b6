package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verdantis/carbon-canary/internal/model"
)

// SaveCalculations inserts or updates emissions calculations atomically.
func (s *SQLiteStorage) SaveCalculations(ctx context.Context, calcs []model.EmissionsCalculation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCalculations(calcs); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO emissions_calculations
			(id, company_id, period_start, period_end, scope1_tco2e, scope2_tco2e,
			 fuel_consumption, electricity_consumption, activity_lines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			scope1_tco2e = excluded.scope1_tco2e,
			scope2_tco2e = excluded.scope2_tco2e,
			fuel_consumption = excluded.fuel_consumption,
			electricity_consumption = excluded.electricity_consumption,
			activity_lines = excluded.activity_lines
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range calcs {
		lines, err := json.Marshal(calcs[i].Lines)
		if err != nil {
			return fmt.Errorf("failed to marshal activity lines for %s: %w", calcs[i].ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			calcs[i].ID, calcs[i].CompanyID, calcs[i].PeriodStart, calcs[i].PeriodEnd,
			calcs[i].Scope1TCO2e, calcs[i].Scope2TCO2e,
			calcs[i].FuelConsumption, calcs[i].ElectricityConsumption, string(lines)); err != nil {
			return fmt.Errorf("failed to save calculation %s: %w", calcs[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit calculations: %w", err)
	}
	return nil
}

// GetCalculationsByYear returns all calculations whose reporting period
// starts in the given year. An empty slice means nothing is recorded.
func (s *SQLiteStorage) GetCalculationsByYear(ctx context.Context, companyID string, year int) ([]model.EmissionsCalculation, error) {
	return s.GetCalculationsInRange(ctx, companyID, year, year)
}

// GetCalculationsInRange returns calculations with period starts inside the
// inclusive year range, ordered by period start.
func (s *SQLiteStorage) GetCalculationsInRange(ctx context.Context, companyID string, fromYear, toYear int) ([]model.EmissionsCalculation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}
	if fromYear > toYear {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidYearRange, fromYear, toYear)
	}

	from := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, period_start, period_end, scope1_tco2e, scope2_tco2e,
		       fuel_consumption, electricity_consumption, activity_lines
		FROM emissions_calculations
		WHERE company_id = ? AND period_start >= ? AND period_start < ?
		ORDER BY period_start
	`, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	calcs := []model.EmissionsCalculation{}
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}
	return calcs, nil
}

func scanCalculation(rows *sql.Rows) (model.EmissionsCalculation, error) {
	var calc model.EmissionsCalculation
	var lines sql.NullString
	if err := rows.Scan(&calc.ID, &calc.CompanyID, &calc.PeriodStart, &calc.PeriodEnd,
		&calc.Scope1TCO2e, &calc.Scope2TCO2e,
		&calc.FuelConsumption, &calc.ElectricityConsumption, &lines); err != nil {
		return calc, fmt.Errorf("failed to scan calculation: %w", err)
	}
	if lines.Valid && lines.String != "" {
		if err := json.Unmarshal([]byte(lines.String), &calc.Lines); err != nil {
			return calc, fmt.Errorf("failed to unmarshal activity lines for %s: %w", calc.ID, err)
		}
	}
	return calc, nil
}
