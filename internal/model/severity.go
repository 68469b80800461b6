package model

// Severity grades how serious a finding or discrepancy is.
type Severity string

const (
	// SeverityLow indicates a minor finding worth tracking.
	SeverityLow Severity = "low"
	// SeverityMedium indicates a finding that should be scheduled for review.
	SeverityMedium Severity = "medium"
	// SeverityHigh indicates a significant finding needing prompt attention.
	SeverityHigh Severity = "high"
	// SeverityCritical indicates a finding requiring immediate action.
	SeverityCritical Severity = "critical"
)

// Rank orders severities for comparison; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}
