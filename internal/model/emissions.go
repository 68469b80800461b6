// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// Scope identifies a GHG Protocol emissions scope.
type Scope string

const (
	// ScopeOne covers direct emissions from owned or controlled sources.
	ScopeOne Scope = "scope_1"
	// ScopeTwo covers indirect emissions from purchased energy.
	ScopeTwo Scope = "scope_2"
)

// MeasurementQuality tags how an activity value was obtained.
type MeasurementQuality string

const (
	// QualityMeasured indicates directly metered data.
	QualityMeasured MeasurementQuality = "measured"
	// QualityCalculated indicates data derived from primary records.
	QualityCalculated MeasurementQuality = "calculated"
	// QualityEstimated indicates modeled or extrapolated data.
	QualityEstimated MeasurementQuality = "estimated"
)

// Company is a reporting entity in the registry.
type Company struct {
	CreatedAt           time.Time
	ID                  string
	Name                string
	Ticker              string
	CIK                 string
	Industry            string
	Sector              string
	HeadquartersCountry string
	// AnnualRevenueUSD is required for emissions-intensity benchmarking.
	// Zero means unknown; the benchmark detector skips companies without it.
	AnnualRevenueUSD float64
}

// ActivityLine is a single activity input underlying a calculation.
type ActivityLine struct {
	Description string
	Unit        string
	Quality     MeasurementQuality
	Quantity    float64
}

// EmissionsCalculation is one reported emissions calculation for a company
// covering a single reporting period (typically a month).
type EmissionsCalculation struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	ID          string
	CompanyID   string
	Lines       []ActivityLine
	// Totals in metric tons CO2-equivalent.
	Scope1TCO2e float64
	Scope2TCO2e float64
	// Activity drivers backing the scope totals. Zero with a positive
	// scope total is an operational inconsistency.
	FuelConsumption        float64
	ElectricityConsumption float64
}

// Year returns the reporting year the calculation belongs to.
func (c *EmissionsCalculation) Year() int {
	return c.PeriodStart.Year()
}

// Month returns the calendar month of the reporting period start.
func (c *EmissionsCalculation) Month() time.Month {
	return c.PeriodStart.Month()
}

// Validate checks structural constraints before any analysis runs.
func (c *EmissionsCalculation) Validate() error {
	if c.CompanyID == "" {
		return fmt.Errorf("calculation %s: company ID is required", c.ID)
	}
	if c.PeriodStart.IsZero() {
		return fmt.Errorf("calculation %s: reporting period start is required", c.ID)
	}
	if c.Scope1TCO2e < 0 || c.Scope2TCO2e < 0 {
		return fmt.Errorf("calculation %s: emissions totals must be non-negative", c.ID)
	}
	if c.FuelConsumption < 0 || c.ElectricityConsumption < 0 {
		return fmt.Errorf("calculation %s: activity quantities must be non-negative", c.ID)
	}
	for i, line := range c.Lines {
		if line.Quantity < 0 {
			return fmt.Errorf("calculation %s: activity line %d has negative quantity", c.ID, i)
		}
	}
	return nil
}

// EmissionsRecord is the per-company, per-year aggregate the validation
// engine operates on.
type EmissionsRecord struct {
	CompanyID        string
	Calculations     []EmissionsCalculation
	Year             int
	Scope1Total      float64
	Scope2Total      float64
	CalculationCount int
}

// Total returns the combined Scope 1 + Scope 2 total in tCO2e.
func (r *EmissionsRecord) Total() float64 {
	return r.Scope1Total + r.Scope2Total
}

// ScopeCount returns how many scopes carry a nonzero total.
func (r *EmissionsRecord) ScopeCount() int {
	n := 0
	if r.Scope1Total > 0 {
		n++
	}
	if r.Scope2Total > 0 {
		n++
	}
	return n
}

// Aggregate rolls a set of calculations up into a yearly record.
func Aggregate(companyID string, year int, calcs []EmissionsCalculation) EmissionsRecord {
	rec := EmissionsRecord{
		CompanyID:        companyID,
		Year:             year,
		Calculations:     calcs,
		CalculationCount: len(calcs),
	}
	for i := range calcs {
		rec.Scope1Total += calcs[i].Scope1TCO2e
		rec.Scope2Total += calcs[i].Scope2TCO2e
	}
	return rec
}
