package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nox-hq/riskboard/core/nav"
)

// listing is the list form of a page: static lines around a block of
// selectable rows. users holds the user ID behind each row, "" when the row
// has none.
type listing struct {
	header []string
	rows   []string
	users  []string
	footer []string
}

func (l *listing) add(row, userID string) {
	l.rows = append(l.rows, row)
	l.users = append(l.users, userID)
}

// rowUsers returns the user IDs behind the selectable rows of the current
// page.
func rowUsers(m *Model) []string {
	if m.page == nil || !m.page.Loaded || m.page.RiskProfile != nil {
		return nil
	}
	return content(m).users
}

// renderFrame renders the sidebar, the current page and the status line.
func renderFrame(m *Model) string {
	var b strings.Builder

	title := " riskboard"
	if m.page.Loaded {
		title += fmt.Sprintf(" · %s", m.page.Title)
		title += subtleStyle.Render(fmt.Sprintf("  generation %d", m.page.Generation))
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")

	var main string
	switch {
	case !m.page.Loaded:
		main = subtleStyle.Render("No snapshot loaded.")
	case m.page.RiskProfile != nil:
		main = renderDetail(m)
	default:
		main = renderListing(m, content(m))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, renderSidebar(m), " "+main))
	b.WriteString("\n")

	if m.filter.searching {
		b.WriteString(" Search: " + m.filter.search + "█\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(" " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(helpLine(m)))
	b.WriteString("\n")
	return b.String()
}

func renderSidebar(m *Model) string {
	var lines []string
	for i, v := range nav.Views() {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.page.View {
			lines = append(lines, selectedStyle.Render("▸ "+label))
			continue
		}
		lines = append(lines, "  "+label)
	}
	return sidebarStyle.Render(strings.Join(lines, "\n"))
}

func renderListing(m *Model, l listing) string {
	var b strings.Builder
	for _, line := range l.header {
		b.WriteString(line + "\n")
	}

	if len(l.rows) > 0 {
		visible := m.height - len(l.header) - len(l.footer) - 8
		if visible < 3 {
			visible = 3
		}
		start := m.cursor - visible/2
		if start < 0 {
			start = 0
		}
		end := start + visible
		if end > len(l.rows) {
			end = len(l.rows)
			start = max(end-visible, 0)
		}
		for i := start; i < end; i++ {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("▸") + l.rows[i] + "\n")
				continue
			}
			b.WriteString(" " + l.rows[i] + "\n")
		}
	}

	for _, line := range l.footer {
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func helpLine(m *Model) string {
	switch {
	case m.filter.searching:
		return " type to search  enter/esc done"
	case m.page.RiskProfile != nil:
		return " esc back  n/p next/prev user  tab/1-9 views  r reload  q quit"
	case m.page.View == nav.RiskProfile:
		return " ↑↓ move  enter profile  / search  l level  tab/1-9 views  r reload  q quit"
	default:
		return " ↑↓ move  enter profile  tab/1-9 views  r reload  q quit"
	}
}
