package aggregate

import (
	"github.com/nox-hq/riskboard/core/entity"
)

// Grade is a letter grade for the organization's security posture.
type Grade struct {
	Letter string `json:"letter"`
	Color  string `json:"color"`
	// Posture is 100 minus the risk score, rounded to one decimal.
	Posture float64 `json:"posture"`
}

// gradeThresholds maps minimum posture scores to letter grades.
var gradeThresholds = []struct {
	minPosture float64
	letter     string
	color      string
}{
	{93, "A", "#4c1"},
	{90, "A-", "#4c1"},
	{87, "B+", "#a3c51c"},
	{83, "B", "#a3c51c"},
	{80, "B-", "#a3c51c"},
	{77, "C+", "#dfb317"},
	{73, "C", "#dfb317"},
	{70, "C-", "#dfb317"},
	{60, "D", "#fe7d37"},
}

const gradeFColor = "#b60205"

// PostureGrade grades the posture score 100−riskScore. Risk scores outside
// [0,100] are clamped.
func PostureGrade(riskScore float64) Grade {
	riskScore = min(max(riskScore, 0), 100)
	posture := round1(100 - riskScore)
	for _, t := range gradeThresholds {
		if posture >= t.minPosture {
			return Grade{Letter: t.letter, Color: t.color, Posture: posture}
		}
	}
	return Grade{Letter: "F", Color: gradeFColor, Posture: posture}
}

// ComplianceReadiness is the mean progress across frameworks, rounded to one
// decimal; 0 when there are none.
func ComplianceReadiness(frameworks []entity.ComplianceFramework) float64 {
	if len(frameworks) == 0 {
		return 0
	}
	total := 0.0
	for i := range frameworks {
		total += frameworks[i].Progress
	}
	return round1(total / float64(len(frameworks)))
}
