// Package badge renders shields-style SVG badges for the organization's
// posture grade and its risk event counts.
package badge

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/nox-hq/riskboard/core/aggregate"
	"github.com/nox-hq/riskboard/core/entity"
)

// Result holds badge generation output.
type Result struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
	SVG   string `json:"svg,omitempty"`
}

const zeroColor = "#4c1"

// LevelColors maps risk levels to badge colors for non-zero counts.
var LevelColors = map[entity.RiskLevel]string{
	entity.RiskCritical: "#b60205",
	entity.RiskHigh:     "#e05d44",
	entity.RiskMedium:   "#dfb317",
	entity.RiskLow:      "#a3c51c",
}

// Posture renders the posture grade, e.g. "posture | B+ (84.5)".
func Posture(g aggregate.Grade, label string) *Result {
	value := g.Letter + " (" + strconv.FormatFloat(g.Posture, 'f', 1, 64) + ")"
	return &Result{
		Label: label,
		Value: value,
		Color: g.Color,
		SVG:   GenerateSVG(label, value, g.Color),
	}
}

// LevelBadges renders one event-count badge per level in dist, keyed by
// level. A zero count is green.
func LevelBadges(dist []aggregate.LevelCount, label string) map[entity.RiskLevel]*Result {
	out := make(map[entity.RiskLevel]*Result, len(dist))
	for _, lc := range dist {
		badgeLabel := label + " " + strings.ToLower(string(lc.Level))
		value := strconv.Itoa(lc.Count)
		color := zeroColor
		if lc.Count > 0 {
			color = LevelColors[lc.Level]
		}
		out[lc.Level] = &Result{
			Label: badgeLabel,
			Value: value,
			Color: color,
			SVG:   GenerateSVG(badgeLabel, value, color),
		}
	}
	return out
}

// GenerateSVG produces an SVG badge string for the given label, value, and
// color. Label and value are escaped.
func GenerateSVG(label, value, color string) string {
	labelW := textWidth(label) + 10
	valueW := textWidth(value) + 10
	totalW := labelW + valueW

	// Text positions are in tenths of a pixel (SVG uses scale(.1)).
	labelX := labelW * 10 / 2
	valueX := (labelW + valueW/2) * 10

	l, v := html.EscapeString(label), html.EscapeString(value)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">`+"\n", totalW, l, v)
	fmt.Fprintf(&b, "  <title>%s: %s</title>\n", l, v)
	b.WriteString(`  <linearGradient id="s" x2="0" y2="100%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
`)
	fmt.Fprintf(&b, `  <clipPath id="r"><rect width="%d" height="20" rx="3" fill="#fff"/></clipPath>`+"\n", totalW)
	b.WriteString(`  <g clip-path="url(#r)">` + "\n")
	fmt.Fprintf(&b, `    <rect width="%d" height="20" fill="#555"/>`+"\n", labelW)
	fmt.Fprintf(&b, `    <rect x="%d" width="%d" height="20" fill="%s"/>`+"\n", labelW, valueW, color)
	fmt.Fprintf(&b, `    <rect width="%d" height="20" fill="url(#s)"/>`+"\n", totalW)
	b.WriteString("  </g>\n")
	b.WriteString(`  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" text-rendering="geometricPrecision" font-size="110">` + "\n")
	for _, t := range []struct {
		x    int
		text string
	}{{labelX, l}, {valueX, v}} {
		fmt.Fprintf(&b, `    <text aria-hidden="true" x="%d" y="150" fill="#010101" fill-opacity=".3" transform="scale(.1)">%s</text>`+"\n", t.x, t.text)
		fmt.Fprintf(&b, `    <text x="%d" y="140" transform="scale(.1)">%s</text>`+"\n", t.x, t.text)
	}
	b.WriteString("  </g>\n</svg>\n")
	return b.String()
}

// textWidth estimates the pixel width of a string rendered in Verdana 11px,
// matching the shields.io flat badge style.
func textWidth(s string) int {
	w := 0.0
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			w += 7.5
		case c >= 'a' && c <= 'z':
			w += 6.1
		case c >= '0' && c <= '9':
			w += 6.5
		case c == ' ', c == '.', c == '(', c == ')':
			w += 3.3
		default:
			w += 6.0
		}
	}
	return int(math.Ceil(w))
}
