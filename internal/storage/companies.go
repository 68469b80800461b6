package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verdantis/carbon-canary/internal/model"
)

// SaveCompany inserts or updates a company record.
func (s *SQLiteStorage) SaveCompany(ctx context.Context, company *model.Company) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCompany(company); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, ticker, cik, industry, sector, headquarters_country, annual_revenue_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			ticker = excluded.ticker,
			cik = excluded.cik,
			industry = excluded.industry,
			sector = excluded.sector,
			headquarters_country = excluded.headquarters_country,
			annual_revenue_usd = excluded.annual_revenue_usd
	`, company.ID, company.Name, company.Ticker, company.CIK,
		company.Industry, company.Sector, company.HeadquartersCountry, company.AnnualRevenueUSD)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", company.ID, err)
	}
	return nil
}

// GetCompany returns a company by ID, or (nil, nil) when no company exists.
func (s *SQLiteStorage) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var company model.Company
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, ticker, cik, industry, sector, headquarters_country, annual_revenue_usd, created_at
		FROM companies WHERE id = ?
	`, id).Scan(&company.ID, &company.Name, &company.Ticker, &company.CIK,
		&company.Industry, &company.Sector, &company.HeadquartersCountry,
		&company.AnnualRevenueUSD, &company.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", id, err)
	}
	return &company, nil
}

// ListCompanies returns all companies ordered by name.
func (s *SQLiteStorage) ListCompanies(ctx context.Context) ([]model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, ticker, cik, industry, sector, headquarters_country, annual_revenue_usd, created_at
		FROM companies ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var companies []model.Company
	for rows.Next() {
		var company model.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.Ticker, &company.CIK,
			&company.Industry, &company.Sector, &company.HeadquartersCountry,
			&company.AnnualRevenueUSD, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}
	return companies, nil
}
