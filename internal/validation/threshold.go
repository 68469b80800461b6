package validation

// Level is the variance severity band a percentage variance falls into.
type Level string

const (
	// LevelAcceptable is variance at or below the low cutoff.
	LevelAcceptable Level = "acceptable"
	// LevelLow is variance past the low cutoff.
	LevelLow Level = "low"
	// LevelMedium is variance past the medium cutoff.
	LevelMedium Level = "medium"
	// LevelHigh is variance past the high cutoff.
	LevelHigh Level = "high"
	// LevelCritical is variance past the critical cutoff.
	LevelCritical Level = "critical"
)

// RiskAssessment pairs a band with its required response.
type RiskAssessment struct {
	Risk   string
	Action string
}

// riskTable is static policy, not computed: each band maps to one
// risk/action pair.
var riskTable = map[Level]RiskAssessment{
	LevelAcceptable: {Risk: "low", Action: "monitor"},
	LevelLow:        {Risk: "low", Action: "review"},
	LevelMedium:     {Risk: "medium", Action: "investigate"},
	LevelHigh:       {Risk: "high", Action: "immediate_review"},
	LevelCritical:   {Risk: "critical", Action: "immediate_action"},
}

// Classification is the outcome of mapping a variance onto the cutoffs.
// Available is false when no variance existed to classify.
type Classification struct {
	Level              Level
	Risk               RiskAssessment
	Reason             string
	PercentageVariance float64
	Exceeded           bool
	Available          bool
}

// Classifier maps percentage variances onto severity bands.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier from validated thresholds.
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Classify assigns the band for a variance result. Comparisons are strictly
// greater-than: a variance exactly on the low cutoff is still acceptable.
func (c *Classifier) Classify(variance VarianceResult) Classification {
	if !variance.Available {
		return Classification{
			Available: false,
			Reason:    "Variance analysis not available",
		}
	}

	pct := variance.PercentageVariance
	level := LevelAcceptable
	switch {
	case pct > c.thresholds.Critical:
		level = LevelCritical
	case pct > c.thresholds.High:
		level = LevelHigh
	case pct > c.thresholds.Medium:
		level = LevelMedium
	case pct > c.thresholds.Low:
		level = LevelLow
	}

	return Classification{
		Available:          true,
		Level:              level,
		Risk:               riskTable[level],
		PercentageVariance: pct,
		Exceeded:           pct > c.thresholds.Low,
	}
}
