package badge

import (
	"strings"
	"testing"

	"github.com/nox-hq/riskboard/core/aggregate"
	"github.com/nox-hq/riskboard/core/entity"
)

func TestPosture(t *testing.T) {
	tests := []struct {
		name      string
		riskScore float64
		value     string
		color     string
	}{
		{"strong posture", 5, "A (95.0)", "#4c1"},
		{"middling", 25.5, "C (74.5)", "#dfb317"},
		{"failing", 75.5, "F (24.5)", "#b60205"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Posture(aggregate.PostureGrade(tt.riskScore), "posture")
			if r.Value != tt.value || r.Color != tt.color {
				t.Errorf("Posture() = %s %s, want %s %s", r.Value, r.Color, tt.value, tt.color)
			}
			if !strings.Contains(r.SVG, tt.value) {
				t.Error("SVG missing value")
			}
		})
	}
}

func TestLevelBadges(t *testing.T) {
	events := []entity.RiskEvent{
		{ID: "1", Level: entity.RiskCritical},
		{ID: "2", Level: entity.RiskCritical},
		{ID: "3", Level: entity.RiskHigh},
	}
	badges := LevelBadges(aggregate.RiskDistribution(events), "events")
	if len(badges) != 4 {
		t.Fatalf("expected 4 level badges, got %d", len(badges))
	}
	crit := badges[entity.RiskCritical]
	if crit.Value != "2" || crit.Label != "events critical" || crit.Color != LevelColors[entity.RiskCritical] {
		t.Errorf("critical badge = %+v", crit)
	}
	low := badges[entity.RiskLow]
	if low.Value != "0" || low.Color != zeroColor {
		t.Errorf("low badge = %+v", low)
	}
}

func TestGenerateSVG_Structure(t *testing.T) {
	svg := GenerateSVG("riskboard", "A", "#4c1")
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("expected a single <svg> element")
	}
	if !strings.Contains(svg, "riskboard") {
		t.Error("expected SVG to contain label")
	}
	if !strings.Contains(svg, `fill="#4c1"`) {
		t.Error("expected SVG to contain color")
	}
	if strings.Count(svg, "<text") != 4 {
		t.Errorf("expected 4 text nodes, got %d", strings.Count(svg, "<text"))
	}
}

func TestGenerateSVG_EscapesText(t *testing.T) {
	svg := GenerateSVG("R&D <posture>", "B", "#a3c51c")
	if strings.Contains(svg, "R&D") || strings.Contains(svg, "<posture>") {
		t.Errorf("label not escaped:\n%s", svg)
	}
	if !strings.Contains(svg, "R&amp;D &lt;posture&gt;") {
		t.Error("escaped label missing")
	}
}

func TestTextWidth(t *testing.T) {
	if textWidth("") != 0 {
		t.Error("empty string should have zero width")
	}
	if textWidth("AAA") <= textWidth("aaa") {
		t.Error("capitals should be wider than lower case")
	}
}
