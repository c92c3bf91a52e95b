package assist

import (
	"fmt"
	"strings"

	"github.com/nox-hq/riskboard/core/viewmodel"
)

// maxPromptEvents and maxPromptActions bound how much history is sent.
const (
	maxPromptEvents  = 15
	maxPromptActions = 10
)

func systemPrompt() string {
	return `You are a security analyst writing a short human-risk briefing about one employee
for a security operations team. Respond with a single JSON object with these fields:
- "summary": two or three sentences on the user's overall risk (string)
- "drivers": the main factors behind the score, most important first (array of strings)
- "actions": specific next steps for the security team (array of strings)

Respond ONLY with the JSON object. Do not include markdown fences or other text.
Base every statement on the data provided. Do not speculate about intent.`
}

// formatDetail renders a risk-profile detail page as structured text.
func formatDetail(d *viewmodel.RiskProfileDetail) string {
	var b strings.Builder
	u := d.User
	fmt.Fprintf(&b, "User: %s (%s)\n", u.Name, u.ID)
	if u.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", u.Role)
	}
	if u.Department != "" {
		fmt.Fprintf(&b, "Department: %s\n", u.Department)
	}
	fmt.Fprintf(&b, "Risk score: %d/100 (%s)\n", u.RiskScore, d.Level)
	if d.Rank > 0 {
		fmt.Fprintf(&b, "Rank: %d of %d users\n", d.Rank, d.Total)
	}
	if u.PhishingRisk != "" {
		fmt.Fprintf(&b, "Phishing risk: %s\n", u.PhishingRisk)
	}
	fmt.Fprintf(&b, "Anomalies detected: %d\n", u.AnomaliesDetected)
	fmt.Fprintf(&b, "Security training complete: %t\n", u.TrainingComplete)

	b.WriteString("Score breakdown:\n")
	for _, f := range d.Breakdown.Factors {
		fmt.Fprintf(&b, "  %s: %d\n", f.Factor, f.Points)
	}
	if d.Breakdown.EqualShare {
		b.WriteString("  (no factor data; split evenly)\n")
	}

	if len(d.Events) > 0 {
		b.WriteString("Recent events:\n")
		for i, e := range d.Events {
			if i == maxPromptEvents {
				fmt.Fprintf(&b, "  ... %d more\n", len(d.Events)-maxPromptEvents)
				break
			}
			fmt.Fprintf(&b, "  [%s] %s %s", e.Level, e.Date.Format("2006-01-02 15:04"), e.Event)
			if e.Category != "" {
				fmt.Fprintf(&b, " (%s)", e.Category)
			}
			b.WriteString("\n")
		}
	}

	if len(d.Actions) > 0 {
		b.WriteString("Remediation actions:\n")
		for i, a := range d.Actions {
			if i == maxPromptActions {
				fmt.Fprintf(&b, "  ... %d more\n", len(d.Actions)-maxPromptActions)
				break
			}
			status := string(a.Status)
			if status == "" {
				status = "Open"
			}
			fmt.Fprintf(&b, "  [%s, %s] %s: %s\n", a.Priority, status, a.Issue, a.Action)
		}
	}
	return b.String()
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
