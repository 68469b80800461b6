// Package service defines the interfaces for all application collaborators.
package service

import (
	"context"
	"time"

	"github.com/verdantis/carbon-canary/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Company registry operations
	SaveCompany(ctx context.Context, company *model.Company) error
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context) ([]model.Company, error)

	// Emissions calculation operations. GetCalculationsByYear returns an
	// empty slice when nothing is recorded; that is data, not an error.
	SaveCalculations(ctx context.Context, calcs []model.EmissionsCalculation) error
	GetCalculationsByYear(ctx context.Context, companyID string, year int) ([]model.EmissionsCalculation, error)
	GetCalculationsInRange(ctx context.Context, companyID string, fromYear, toYear int) ([]model.EmissionsCalculation, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReferenceGateway provides access to the external emissions registry.
type ReferenceGateway interface {
	// Search returns candidate registry matches for a company, ranked by
	// descending match confidence for the given reporting year.
	Search(ctx context.Context, company *model.Company, year int) ([]model.ReferenceMatch, error)
	// GetEmissions returns the registry record for a facility and year.
	// A (nil, nil) return means the facility did not report for that year;
	// errors are reserved for infrastructure failures.
	GetEmissions(ctx context.Context, facilityID string, year int) (*model.ReferenceEmissionsRecord, error)
}

// AuditEvent is a single entry for the compliance audit trail.
type AuditEvent struct {
	Timestamp time.Time
	Type      string
	Actor     string
	Details   map[string]any
}

// AuditSink records audit events. Implementations must persist events;
// callers fall back to local logging when a write fails.
type AuditSink interface {
	LogEvent(ctx context.Context, event AuditEvent) error
}
