package nav

import (
	"fmt"
	"strings"
)

// View identifies one dashboard page.
type View int

// Views in sidebar order. Dashboard is the zero value and the initial view.
const (
	Dashboard View = iota
	RiskProfile
	RiskEvents
	TeamRisk
	PhishingSimulation
	BehavioralAnalytics
	AccessMonitoring
	Remediation
	OrganizationOverview

	numViews
)

var viewInfo = [numViews]struct {
	slug   string
	title  string
	detail bool
}{
	Dashboard:            {"dashboard", "Dashboard", false},
	RiskProfile:          {"risk-profile", "Risk Profile", true},
	RiskEvents:           {"risk-events", "Risk Events", false},
	TeamRisk:             {"team-risk", "Team Risk", false},
	PhishingSimulation:   {"phishing-simulation", "Phishing Simulation", false},
	BehavioralAnalytics:  {"behavioral-analytics", "Behavioral Analytics", false},
	AccessMonitoring:     {"access-monitoring", "Access Monitoring", false},
	Remediation:          {"remediation", "Remediation", false},
	OrganizationOverview: {"organization-overview", "Organization Overview", false},
}

// Views returns every view in sidebar order.
func Views() []View {
	out := make([]View, numViews)
	for i := range out {
		out[i] = View(i)
	}
	return out
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	return v >= 0 && v < numViews
}

// Slug returns the stable machine name, e.g. "risk-profile".
func (v View) Slug() string {
	if !v.Valid() {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewInfo[v].slug
}

// Title returns the display name, e.g. "Risk Profile".
func (v View) Title() string {
	if !v.Valid() {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewInfo[v].title
}

func (v View) String() string { return v.Slug() }

// SupportsDetail reports whether the view has a drill-down detail form.
func (v View) SupportsDetail() bool {
	return v.Valid() && viewInfo[v].detail
}

// ParseView resolves a view from its slug, title or identifier, ignoring
// case, spaces, hyphens and underscores ("risk-profile", "Risk Profile" and
// "RiskProfile" all match).
func ParseView(s string) (View, error) {
	want := normalize(s)
	if want != "" {
		for i, info := range viewInfo {
			if normalize(info.slug) == want {
				return View(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// MarshalText encodes the view as its slug.
func (v View) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown view %d", int(v))
	}
	return []byte(v.Slug()), nil
}

// UnmarshalText decodes a view with ParseView.
func (v *View) UnmarshalText(b []byte) error {
	parsed, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
