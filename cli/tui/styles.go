package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nox-hq/riskboard/core/entity"
)

var (
	// Risk level colors.
	colorCritical = lipgloss.Color("#F85149")
	colorHigh     = lipgloss.Color("#DB6D28")
	colorMedium   = lipgloss.Color("#D29922")
	colorLow      = lipgloss.Color("#2EA043")
	colorUnknown  = lipgloss.Color("#808080")

	// UI colors.
	colorTitle    = lipgloss.Color("#FFFFFF")
	colorSubtle   = lipgloss.Color("#666666")
	colorSelected = lipgloss.Color("#7D56F4")
	colorWarn     = lipgloss.Color("#FF6B6B")

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSelected)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	sidebarStyle = lipgloss.NewStyle().
			Width(26).
			PaddingRight(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(colorSubtle)

	kpiLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	kpiValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#88C0D0"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A3BE8C"))
)

func levelColor(l entity.RiskLevel) lipgloss.Color {
	switch l {
	case entity.RiskCritical:
		return colorCritical
	case entity.RiskHigh:
		return colorHigh
	case entity.RiskMedium:
		return colorMedium
	case entity.RiskLow:
		return colorLow
	default:
		return colorUnknown
	}
}

// levelStyle returns the style used for a risk level.
func levelStyle(l entity.RiskLevel) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(levelColor(l))
}

// levelBadge returns a fixed-width risk level tag for list display.
func levelBadge(l entity.RiskLevel) string {
	style := levelStyle(l)
	switch l {
	case entity.RiskCritical:
		return style.Render("CRIT")
	case entity.RiskHigh:
		return style.Render("HIGH")
	case entity.RiskMedium:
		return style.Render(" MED")
	case entity.RiskLow:
		return style.Render(" LOW")
	default:
		return style.Render("   ?")
	}
}

// kpi renders a label/value pair.
func kpi(label string, value any) string {
	return kpiLabelStyle.Render(label+" ") + kpiValueStyle.Render(fmt.Sprint(value))
}
