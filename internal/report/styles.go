package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verdantis/carbon-canary/internal/cli"
	"github.com/verdantis/carbon-canary/internal/model"
)

// Styles contains all styling definitions for validation report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	// Report-specific styles
	Box      lipgloss.Style
	Score    lipgloss.Style
	Critical lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.Critical = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor).
		Background(lipgloss.Color("#2D0000"))

	s.High = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.WarningColor)

	s.Medium = lipgloss.NewStyle().
		Foreground(cli.InfoColor)

	s.Low = lipgloss.NewStyle().
		Foreground(cli.SubtleColor)

	return s
}

// ForSeverity returns the appropriate style for the given severity level.
func (s *Styles) ForSeverity(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeverityCritical:
		return s.Critical
	case model.SeverityHigh:
		return s.High
	case model.SeverityMedium:
		return s.Medium
	case model.SeverityLow:
		return s.Low
	default:
		return s.Normal
	}
}

// ForScore returns the appropriate style for a 0-100 score.
func (s *Styles) ForScore(score float64) lipgloss.Style {
	switch {
	case score >= 85:
		return s.Success
	case score >= 60:
		return s.Warning
	default:
		return s.Error
	}
}

// RenderScoreBar creates a progress-bar rendering of a 0-100 score.
func (s *Styles) RenderScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 30
	}
	filled := int(float64(width) * score / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
