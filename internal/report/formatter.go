package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verdantis/carbon-canary/internal/anomaly"
	"github.com/verdantis/carbon-canary/internal/model"
	"github.com/verdantis/carbon-canary/internal/validation"
)

// CLIFormatter renders validation reports for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// Format renders a result at the requested detail level.
func (f *CLIFormatter) Format(result *validation.Result, detail Detail) string {
	switch detail {
	case DetailExecutive:
		return f.FormatExecutive(BuildExecutive(result))
	case DetailComprehensive:
		return f.FormatComprehensive(BuildComprehensive(result))
	default:
		return f.FormatSummary(BuildSummary(result))
	}
}

// FormatExecutive renders the one-screen leadership view.
func (f *CLIFormatter) FormatExecutive(exec Executive) string {
	var sections []string

	sections = append(sections, f.formatHeader(exec))
	sections = append(sections, f.formatVerdict(exec))
	sections = append(sections, f.formatOverallScore(exec.OverallScore, exec.ConfidenceLevel))

	if len(exec.KeyFindings) > 0 {
		sections = append(sections, f.formatKeyFindings(exec.KeyFindings))
	}

	return strings.Join(sections, "\n\n")
}

// FormatSummary renders the summary view with score breakdown and
// discrepancy counts.
func (f *CLIFormatter) FormatSummary(summary Summary) string {
	var sections []string

	sections = append(sections, f.formatHeader(summary.Executive))
	sections = append(sections, f.formatVerdict(summary.Executive))
	sections = append(sections, f.formatOverallScore(summary.OverallScore, summary.ConfidenceLevel))
	sections = append(sections, f.formatScoreBreakdown(summary.Scores))
	sections = append(sections, f.formatDiscrepancyCounts(summary.DiscrepancyCounts))

	if summary.AnomalyCount > 0 {
		anomalies := fmt.Sprintf("Anomalies detected: %d (risk score %.1f)",
			summary.AnomalyCount, summary.AnomalyRiskScore)
		sections = append(sections, f.styles.Warning.Render(anomalies))
	}

	if !summary.ReferenceAvailable {
		sections = append(sections, f.styles.Subtle.Render(
			"No registry reference data was available for cross-verification"))
	}

	if len(summary.Recommendations) > 0 {
		sections = append(sections, f.formatRecommendations(summary.Recommendations))
	}

	return strings.Join(sections, "\n\n")
}

// FormatComprehensive renders the full audit view: summary plus variance
// detail, every discrepancy, and the anomaly report.
func (f *CLIFormatter) FormatComprehensive(comp Comprehensive) string {
	var sections []string

	sections = append(sections, f.FormatSummary(comp.Summary))

	if comp.Result.Variance.Available {
		sections = append(sections, f.formatVariance(comp.Result.Variance, comp.Result.Threshold))
	}

	if len(comp.Result.Discrepancies) > 0 {
		sections = append(sections, f.formatDiscrepancies(comp.Result.Discrepancies))
	}

	if comp.Result.Anomalies.TotalAnomalies > 0 {
		sections = append(sections, f.FormatAnomalyReport(&comp.Result.Anomalies))
	}

	return strings.Join(sections, "\n\n")
}

// FormatAnomalyReport renders an anomaly detection report.
func (f *CLIFormatter) FormatAnomalyReport(rep *anomaly.Report) string {
	if rep == nil {
		return f.styles.Error.Render("No anomaly report available")
	}

	var sections []string

	title := f.styles.Title.Render("📊 Anomaly Detection Report")
	meta := f.styles.Subtle.Render(fmt.Sprintf("Company: %s | Year: %d | Analyzed: %s",
		rep.CompanyID, rep.ReportingYear, rep.AnalysisDate.Format(time.RFC3339)))
	sections = append(sections, title+"\n"+meta)

	risk := fmt.Sprintf("Overall risk score: %.1f / 100", rep.OverallRiskScore)
	sections = append(sections, f.styles.ForScore(100-rep.OverallRiskScore).Render(risk))

	sections = append(sections, f.formatSeverityCounts(rep.BySeverity))

	for i := range rep.Findings {
		sections = append(sections, f.formatFinding(&rep.Findings[i]))
	}

	if len(rep.Insights) > 0 {
		sections = append(sections, f.formatInsights(rep.Insights))
	}

	return strings.Join(sections, "\n\n")
}

// FormatMatches renders ranked registry matches for the search command.
func (f *CLIFormatter) FormatMatches(matches []model.ReferenceMatch) string {
	if len(matches) == 0 {
		return f.styles.Warning.Render("No registry matches found")
	}

	title := f.styles.Subtitle.Render("Registry Matches:")
	var lines []string
	for i := range matches {
		m := &matches[i]
		head := fmt.Sprintf("%s (%s, %s) - confidence %.0f",
			f.styles.Info.Render(m.FacilityName), m.City, m.State, m.Confidence)
		lines = append(lines, head)
		for _, factor := range m.MatchFactors {
			lines = append(lines, f.styles.Subtle.Render("    "+factor))
		}
	}
	return title + "\n" + strings.Join(lines, "\n")
}

// FormatCompanies renders the company registry as a table.
func (f *CLIFormatter) FormatCompanies(companies []model.Company) string {
	if len(companies) == 0 {
		return f.styles.Warning.Render("No companies registered")
	}

	nameWidth := 28
	tickerWidth := 8
	industryWidth := 28

	headerStyle := f.styles.Subtle.Bold(true)
	header := fmt.Sprintf("%-*s %-*s %-*s %s",
		nameWidth, "Company", tickerWidth, "Ticker", industryWidth, "Industry", "ID")
	rows := []string{headerStyle.Render(header),
		f.styles.Subtle.Render(strings.Repeat("─", len(header)))}

	for i := range companies {
		c := &companies[i]
		name := c.Name
		if len(name) > nameWidth-1 {
			name = name[:nameWidth-4] + "..."
		}
		rows = append(rows, fmt.Sprintf("%-*s %-*s %-*s %s",
			nameWidth, name, tickerWidth, c.Ticker, industryWidth, c.Industry, c.ID))
	}
	return strings.Join(rows, "\n")
}

func (f *CLIFormatter) formatHeader(exec Executive) string {
	title := f.styles.Title.Render("🐤 Emissions Validation Report")
	company := f.styles.Subtitle.Render(fmt.Sprintf("%s - reporting year %d",
		exec.CompanyName, exec.ReportingYear))
	id := f.styles.Subtle.Render("Validation ID: " + exec.ValidationID)
	return fmt.Sprintf("%s\n%s\n%s", title, company, id)
}

func (f *CLIFormatter) formatVerdict(exec Executive) string {
	var statusStyle lipgloss.Style
	var icon string
	switch exec.Status {
	case validation.StatusPassed:
		statusStyle, icon = f.styles.Success, "✅"
	case validation.StatusWarning:
		statusStyle, icon = f.styles.Warning, "⚠️"
	default:
		statusStyle, icon = f.styles.Error, "❌"
	}

	status := statusStyle.Render(fmt.Sprintf("%s Status: %s", icon, exec.Status))
	compliance := f.styles.Info.Render("Compliance: " + string(exec.Compliance))

	line := status + "  │  " + compliance
	if exec.ActionRequired {
		line += "  │  " + f.styles.Error.Render("ACTION REQUIRED")
	}
	return line
}

func (f *CLIFormatter) formatOverallScore(score float64, level string) string {
	style := f.styles.ForScore(score)
	text := style.Render(fmt.Sprintf("Confidence: %.1f%% (%s)", score, level))
	bar := style.Render(f.styles.RenderScoreBar(score, 30))
	return text + "\n" + bar
}

func (f *CLIFormatter) formatScoreBreakdown(scores validation.Scores) string {
	title := f.styles.Subtitle.Render("Score Breakdown:")

	components := []struct {
		label string
		value float64
	}{
		{"Variance", scores.Variance},
		{"Data quality", scores.DataQuality},
		{"Completeness", scores.Completeness},
		{"Consistency", scores.Consistency},
		{"Reference availability", scores.ReferenceAvailability},
	}

	lines := make([]string, 0, len(components))
	for _, c := range components {
		value := f.styles.ForScore(c.value).Render(fmt.Sprintf("%6.1f", c.value))
		lines = append(lines, fmt.Sprintf("  %-24s %s", c.label, value))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatDiscrepancyCounts(counts map[model.Severity]int) string {
	title := f.styles.Subtitle.Render("Discrepancies:")

	severities := []model.Severity{
		model.SeverityCritical, model.SeverityHigh,
		model.SeverityMedium, model.SeverityLow,
	}
	var lines []string
	for _, severity := range severities {
		if n := counts[severity]; n > 0 {
			line := f.styles.ForSeverity(severity).Render(
				fmt.Sprintf("%s %s: %d", severityIcon(severity), severity, n))
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return title + "\n" + f.styles.Success.Render("✅ No discrepancies found!")
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatVariance(variance validation.VarianceResult, threshold validation.Classification) string {
	title := f.styles.Subtitle.Render("Registry Cross-Verification:")

	lines := []string{
		fmt.Sprintf("  Company total:   %12.1f tCO2e", variance.CompanyTotal),
		fmt.Sprintf("  Registry total:  %12.1f tCO2e", variance.ReferenceTotal),
		fmt.Sprintf("  Variance:        %12.1f tCO2e (%.1f%%, %s)",
			variance.AbsoluteVariance, variance.PercentageVariance, variance.Direction),
	}

	if threshold.Available {
		risk := fmt.Sprintf("  Band: %s | Risk: %s | Action: %s",
			threshold.Level, threshold.Risk.Risk, threshold.Risk.Action)
		style := f.styles.Info
		if threshold.Exceeded {
			style = f.styles.Warning
		}
		lines = append(lines, style.Render(risk))
	}

	for i := range variance.PerScope {
		sv := &variance.PerScope[i]
		if !sv.Available {
			lines = append(lines, f.styles.Subtle.Render(
				fmt.Sprintf("  %s: no registry total to compare", sv.Scope)))
			continue
		}
		lines = append(lines, f.styles.Subtle.Render(
			fmt.Sprintf("  %s: %.1f vs %.1f (%.1f%% %s)",
				sv.Scope, sv.CompanyTotal, sv.ReferenceTotal,
				sv.PercentageVariance, sv.Direction)))
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatDiscrepancies(discrepancies []validation.Discrepancy) string {
	title := f.styles.Subtitle.Render("Discrepancy Detail:")

	var lines []string
	for i := range discrepancies {
		d := &discrepancies[i]
		head := f.styles.ForSeverity(d.Severity).Render(
			fmt.Sprintf("%s [%s] %s", severityIcon(d.Severity), d.Severity, d.Kind))
		lines = append(lines, head)
		lines = append(lines, "  "+d.Description)
		lines = append(lines, f.styles.Subtle.Render("  Source: "+d.Source))
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatFinding(finding *anomaly.Finding) string {
	head := f.styles.ForSeverity(finding.Severity).Render(
		fmt.Sprintf("%s [%s] %s", severityIcon(finding.Severity), finding.Severity, finding.Type))

	lines := []string{head, "  " + finding.Description}
	lines = append(lines, f.styles.Subtle.Render(fmt.Sprintf(
		"  Detected: %.1f | Expected: %.1f - %.1f | Confidence: %.0f%%",
		finding.DetectedValue, finding.ExpectedLow, finding.ExpectedHigh,
		finding.Confidence*100)))

	for _, rec := range finding.Recommendations {
		lines = append(lines, f.styles.Subtle.Render("  • "+rec))
	}
	return strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatSeverityCounts(counts map[model.Severity]int) string {
	severities := []model.Severity{
		model.SeverityCritical, model.SeverityHigh,
		model.SeverityMedium, model.SeverityLow,
	}
	parts := make([]string, 0, len(severities))
	for _, severity := range severities {
		parts = append(parts, f.styles.ForSeverity(severity).Render(
			fmt.Sprintf("%s: %d", severity, counts[severity])))
	}
	return strings.Join(parts, "  │  ")
}

func (f *CLIFormatter) formatKeyFindings(findings []string) string {
	title := f.styles.Subtitle.Render("Key Findings:")
	lines := make([]string, 0, len(findings))
	for _, finding := range findings {
		lines = append(lines, f.styles.Info.Render("•")+" "+finding)
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatRecommendations(recommendations []string) string {
	title := f.styles.Subtitle.Render("💡 Recommendations:")
	lines := make([]string, 0, len(recommendations))
	for _, rec := range recommendations {
		lines = append(lines, f.styles.Info.Render("•")+" "+rec)
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatInsights(insights []string) string {
	title := f.styles.Subtitle.Render("💡 Key Insights:")
	lines := make([]string, 0, len(insights))
	for _, insight := range insights {
		lines = append(lines, f.styles.Info.Render("•")+" "+insight)
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func severityIcon(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "🚨"
	case model.SeverityHigh:
		return "⚠️"
	case model.SeverityMedium:
		return "⚡"
	case model.SeverityLow:
		return "💡"
	default:
		return "•"
	}
}
