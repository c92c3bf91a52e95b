package tui

import (
	"fmt"
	"strings"
)

// renderDetail renders the risk profile detail page.
func renderDetail(m *Model) string {
	d := m.page.RiskProfile
	u := d.User

	var b strings.Builder

	b.WriteString(fmt.Sprintf(" %s · %s · %s\n",
		titleStyle.Render(u.Name),
		u.Role,
		levelStyle(d.Level).Render(fmt.Sprintf("%d %s", u.RiskScore, d.Level))))
	b.WriteString(" " + subtleStyle.Render(fmt.Sprintf("%s · %s · rank %d of %d", u.ID, u.Department, d.Rank, d.Total)))
	b.WriteString("\n\n")

	b.WriteString(kpiLine(
		kpi("Phishing risk", u.PhishingRisk),
		kpi("Anomalies", u.AnomaliesDetected),
		kpi("Training", trainingLabel(u.TrainingComplete)),
	))
	b.WriteString("\n")
	if !u.LastActivity.IsZero() {
		b.WriteString(" " + kpi("Last activity", u.LastActivity.Format(timeLayout)) + "\n")
	}

	b.WriteString(section("Score breakdown") + "\n")
	for _, f := range d.Breakdown.Factors {
		pct := 0.0
		if d.Breakdown.Score > 0 {
			pct = float64(f.Points) / float64(d.Breakdown.Score) * 100
		}
		b.WriteString(fmt.Sprintf("   %-10s %s %3d\n", f.Factor, bar(pct, 24), f.Points))
	}
	if d.Breakdown.EqualShare {
		b.WriteString("   " + subtleStyle.Render("no factor data, split evenly") + "\n")
	}

	b.WriteString(" " + kpiLabelStyle.Render("Activity ") + spark(d.Activity) + "\n")

	if len(d.Events) > 0 {
		b.WriteString(section("Events") + "\n")
		for i, e := range d.Events {
			if i == 8 {
				b.WriteString("   " + subtleStyle.Render(fmt.Sprintf("... %d more", len(d.Events)-i)) + "\n")
				break
			}
			b.WriteString("  " + eventRow(e) + "\n")
		}
	}

	if len(d.Actions) > 0 {
		b.WriteString(section("Remediation") + "\n")
		for _, a := range d.Actions {
			status := string(a.Status)
			if status == "" {
				status = "Open"
			}
			b.WriteString(fmt.Sprintf("   %s  %s %s\n", levelBadge(a.Priority), a.Issue, subtleStyle.Render("["+status+"]")))
			b.WriteString(wrapText(a.Action, m.width-32, "         "))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func trainingLabel(done bool) string {
	if done {
		return "complete"
	}
	return "pending"
}

// wrapText wraps text at the given width with the given indent prefix.
func wrapText(text string, width int, indent string) string {
	if width <= 0 {
		width = 78
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(indent)
	lineLen := len(indent)

	for i, word := range words {
		if i > 0 && lineLen+1+len(word) > width {
			b.WriteString("\n" + indent)
			lineLen = len(indent)
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	b.WriteString("\n")
	return b.String()
}
