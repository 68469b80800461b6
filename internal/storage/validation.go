// Package storage provides the SQLite persistence layer for companies,
// emissions calculations, validation results, and the audit trail.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verdantis/carbon-canary/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidYearRange = errors.New("from year must not exceed to year")
	ErrInvalidCompany   = errors.New("invalid company")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCompany validates a company before persistence.
func validateCompany(company *model.Company) error {
	if company == nil {
		return fmt.Errorf("%w: company", ErrNilParameter)
	}
	if strings.TrimSpace(company.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCompany)
	}
	if strings.TrimSpace(company.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCompany)
	}
	return nil
}

// validateCalculations validates a slice of calculations before persistence.
// Structural checks only; analytical validation happens in the engine.
func validateCalculations(calcs []model.EmissionsCalculation) error {
	if calcs == nil {
		return fmt.Errorf("%w: calculations", ErrNilParameter)
	}
	if len(calcs) == 0 {
		return fmt.Errorf("%w: calculations", ErrEmptySlice)
	}
	for i := range calcs {
		if calcs[i].ID == "" {
			return fmt.Errorf("calculation at index %d: missing ID", i)
		}
		if err := calcs[i].Validate(); err != nil {
			return fmt.Errorf("calculation at index %d: %w", i, err)
		}
	}
	return nil
}
