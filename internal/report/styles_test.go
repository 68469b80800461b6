package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantis/carbon-canary/internal/model"
)

func TestStyles_ForSeverity(t *testing.T) {
	s := NewStyles()

	assert.Equal(t, s.Critical, s.ForSeverity(model.SeverityCritical))
	assert.Equal(t, s.High, s.ForSeverity(model.SeverityHigh))
	assert.Equal(t, s.Medium, s.ForSeverity(model.SeverityMedium))
	assert.Equal(t, s.Low, s.ForSeverity(model.SeverityLow))
	assert.Equal(t, s.Normal, s.ForSeverity(model.Severity("unknown")))
}

func TestStyles_ForScore(t *testing.T) {
	s := NewStyles()

	assert.Equal(t, s.Success, s.ForScore(95))
	assert.Equal(t, s.Success, s.ForScore(85))
	assert.Equal(t, s.Warning, s.ForScore(84.9))
	assert.Equal(t, s.Warning, s.ForScore(60))
	assert.Equal(t, s.Error, s.ForScore(59.9))
	assert.Equal(t, s.Error, s.ForScore(0))
}

func TestStyles_RenderScoreBar(t *testing.T) {
	s := NewStyles()

	tests := []struct {
		name       string
		score      float64
		width      int
		wantFilled int
		wantWidth  int
	}{
		{name: "full bar", score: 100, width: 10, wantFilled: 10, wantWidth: 10},
		{name: "empty bar", score: 0, width: 10, wantFilled: 0, wantWidth: 10},
		{name: "three quarters", score: 75, width: 20, wantFilled: 15, wantWidth: 20},
		{name: "zero width defaults to 30", score: 50, width: 0, wantFilled: 15, wantWidth: 30},
		{name: "over 100 clamps", score: 150, width: 10, wantFilled: 10, wantWidth: 10},
		{name: "negative clamps", score: -10, width: 10, wantFilled: 0, wantWidth: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := s.RenderScoreBar(tt.score, tt.width)
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "█"))
			assert.Equal(t, tt.wantWidth-tt.wantFilled, strings.Count(bar, "░"))
		})
	}
}
