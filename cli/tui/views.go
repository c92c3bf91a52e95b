package tui

import (
	"fmt"
	"strings"

	"github.com/nox-hq/riskboard/core/aggregate"
	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

const timeLayout = "Jan 02 15:04"

// content builds the list form of the current page.
func content(m *Model) listing {
	p := m.page
	switch {
	case p.Dashboard != nil:
		return dashboardListing(p.Dashboard)
	case p.RiskProfiles != nil:
		return profilesListing(m.filter, p.RiskProfiles)
	case p.RiskEvents != nil:
		return eventsListing(p.RiskEvents)
	case p.TeamRisk != nil:
		return teamListing(p.TeamRisk)
	case p.Phishing != nil:
		return phishingListing(p.Phishing)
	case p.Behavior != nil:
		return behaviorListing(p.Behavior)
	case p.Access != nil:
		return accessListing(p.Access)
	case p.Remediation != nil:
		return remediationListing(p.Remediation)
	case p.Organization != nil:
		return organizationListing(p.Organization)
	}
	return listing{}
}

func kpiLine(items ...string) string {
	return " " + strings.Join(items, "   ")
}

func section(title string) string {
	return "\n " + sectionStyle.Render(title)
}

func userRow(u viewmodel.UserRow) string {
	return fmt.Sprintf(" %s  %3d  %-22s %-16s %s",
		levelBadge(u.Level), u.RiskScore, truncate(u.Name, 22), truncate(u.Department, 16),
		subtleStyle.Render(fmt.Sprintf("%d anomalies", u.AnomaliesDetected)))
}

func eventRow(e entity.RiskEvent) string {
	return fmt.Sprintf(" %s  %s  %-18s %s",
		levelBadge(e.Level), subtleStyle.Render(e.Date.Format(timeLayout)), truncate(e.UserName, 18), e.Event)
}

func distributionLine(d []aggregate.LevelCount) string {
	parts := make([]string, len(d))
	for i, c := range d {
		parts[i] = levelStyle(c.Level).Render(fmt.Sprintf("%s %d", c.Level, c.Count))
	}
	return " " + strings.Join(parts, "  ")
}

func dashboardListing(d *viewmodel.DashboardPage) listing {
	l := listing{header: []string{
		kpiLine(
			kpi("Org risk", fmt.Sprintf("%.1f", d.OrgScore))+" "+levelStyle(d.OrgLevel).Render(string(d.OrgLevel)),
			kpi("Users", d.TotalUsers),
			kpi("High-risk", d.HighRiskUsers),
			kpi("Recent anomalies", d.RecentAnomalies),
			kpi("Click rate", fmt.Sprintf("%.1f%%", d.ClickRate)),
		),
		" " + kpiLabelStyle.Render("Risk trend ") + spark(d.RiskTrend),
		distributionLine(d.Distribution),
		section("Top risk users"),
	}}
	for _, u := range d.TopUsers {
		l.add(userRow(u), u.ID)
	}
	l.footer = append(l.footer, section("Recent events"))
	for _, e := range d.RecentEvents {
		l.footer = append(l.footer, eventRow(e))
	}
	l.footer = append(l.footer, section(fmt.Sprintf("Departments (avg %.1f)", d.DepartmentAverage)))
	for _, dep := range d.Departments {
		l.footer = append(l.footer, fmt.Sprintf(" %-20s %5.1f", truncate(dep.Name, 20), dep.RiskScore))
	}
	return l
}

func profilesListing(f filterState, list *viewmodel.RiskProfileList) listing {
	users := f.apply(list)
	header := fmt.Sprintf(" %d users", len(users))
	if len(users) != list.Total {
		header += subtleStyle.Render(fmt.Sprintf(" (of %d)", list.Total))
	}
	filter := subtleStyle.Render(" Level: ") + "[" + f.activeLevel() + "]"
	if f.search != "" {
		filter += subtleStyle.Render("  Search: ") + "[" + f.search + "]"
	}
	l := listing{header: []string{header, filter, ""}}
	if len(users) == 0 {
		l.header = append(l.header, subtleStyle.Render("  No users match the current filters."))
	}
	for _, u := range users {
		l.add(userRow(u), u.ID)
	}
	return l
}

func eventsListing(p *viewmodel.RiskEventsPage) listing {
	l := listing{header: []string{
		kpiLine(kpi("Events", p.Total)),
		distributionLine(p.Distribution),
		"",
	}}
	for _, e := range p.Events {
		l.add(eventRow(e), e.UserID)
	}
	return l
}

func teamListing(p *viewmodel.TeamRiskPage) listing {
	r := p.Rollup
	l := listing{header: []string{
		kpiLine(
			kpi("Org average", fmt.Sprintf("%.1f", r.OrgAverage)),
			kpi("Employees", r.TotalEmployees),
			kpi("High-risk", r.TotalHighRisk),
		),
		"",
		subtleStyle.Render(fmt.Sprintf("  %-22s %6s %9s %9s %9s", "Department", "Score", "Employees", "High-risk", "Phishing")),
	}}
	for _, d := range r.Departments {
		level := entity.LevelForScore(int(d.RiskScore + 0.5))
		l.add(fmt.Sprintf(" %-22s %s %9d %9d %8.1f%%",
			truncate(d.Name, 22), levelStyle(level).Render(fmt.Sprintf("%6.1f", d.RiskScore)),
			d.Employees, d.HighRiskCount, d.PhishingRate), "")
	}
	return l
}

func phishingListing(p *viewmodel.PhishingPage) listing {
	s := p.Summary
	l := listing{header: []string{
		kpiLine(
			kpi("Campaigns", s.Campaigns),
			kpi("Targeted", s.Targeted),
			kpi("Click rate", fmt.Sprintf("%.1f%%", s.ClickRate)),
			kpi("Reporting", fmt.Sprintf("%.1f%%", s.ReportingRate)),
			kpi("Susceptible users", p.Susceptible),
		),
		"",
	}}
	for _, c := range p.Campaigns {
		launched := "draft"
		if !c.LaunchDate.IsZero() {
			launched = c.LaunchDate.Format("2006-01-02")
		}
		l.add(fmt.Sprintf(" %-28s %s  %5d targeted  %5.1f%% clicked  %5.1f%% reported",
			truncate(c.Name, 28), subtleStyle.Render(fmt.Sprintf("%-10s", launched)),
			c.Targeted, c.ClickRate, c.ReportingRate), "")
	}
	return l
}

func behaviorListing(p *viewmodel.BehaviorPage) listing {
	cats := make([]string, len(p.Summary.ByCategory))
	for i, c := range p.Summary.ByCategory {
		cats[i] = fmt.Sprintf("%s %d", c.Category, c.Count)
	}
	l := listing{header: []string{
		kpiLine(kpi("Anomalies", p.Summary.Total), kpi("Users affected", p.UsersWithAnomalies)),
		" " + kpiLabelStyle.Render("By hour ") + spark(p.ByHour),
		" " + subtleStyle.Render(strings.Join(cats, " · ")),
		section("Alerts"),
	}}
	for _, e := range p.Alerts {
		l.add(eventRow(e)+subtleStyle.Render("  "+e.Category), e.UserID)
	}
	return l
}

func accessListing(p *viewmodel.AccessPage) listing {
	s := p.Summary
	locs := make([]string, len(s.TopLocations))
	for i, c := range s.TopLocations {
		locs[i] = fmt.Sprintf("%s %d", c.Location, c.Count)
	}
	l := listing{header: []string{
		kpiLine(
			kpi("Attempts", s.Total),
			kpi("Failed", s.Failed),
			kpi("Failure rate", fmt.Sprintf("%.1f%%", s.FailureRate)),
			kpi("Devices", s.UniqueDevices),
			kpi("Unusual", s.UnusualLocations),
		),
		" " + kpiLabelStyle.Render("By hour ") + spark(p.ByHour),
		" " + subtleStyle.Render(strings.Join(locs, " · ")),
		section("Recent access"),
	}}
	for _, a := range p.Logs {
		status := string(a.Status)
		if a.Status == entity.AccessFailed {
			status = statusStyle.Render(status)
		}
		flag := ""
		if a.Unusual {
			flag = statusStyle.Render(" unusual")
		}
		l.add(fmt.Sprintf(" %s  %-18s %-16s %-14s %s%s",
			subtleStyle.Render(a.Timestamp.Format(timeLayout)), truncate(a.UserName, 18),
			truncate(a.Location, 16), truncate(a.Device, 14), status, flag), a.UserID)
	}
	return l
}

func remediationListing(p *viewmodel.RemediationPage) listing {
	s := p.Summary
	l := listing{header: []string{
		kpiLine(
			kpi("Actions", s.Total),
			kpi("Open", s.Open),
			kpi("Completed", s.Completed),
			kpi("Automated", fmt.Sprintf("%.1f%%", s.AutomationRate)),
			kpi("Avg hours", fmt.Sprintf("%.1f", s.AvgCompletionHours)),
		),
		distributionLine(s.ByPriority),
		"",
	}}
	for _, a := range p.Actions {
		status := string(a.Status)
		if status == "" {
			status = string(entity.ActionOpen)
		}
		l.add(fmt.Sprintf(" %s  %-18s %-24s %s %s",
			levelBadge(a.Priority), truncate(a.UserName, 18), truncate(a.Issue, 24),
			a.Action, subtleStyle.Render("["+status+"]")), a.UserID)
	}
	return l
}

func organizationListing(p *viewmodel.OrganizationPage) listing {
	name := p.Name
	if name == "" {
		name = "Organization"
	}
	l := listing{header: []string{
		" " + titleStyle.Render(name),
		kpiLine(
			kpi("Grade", p.Grade.Letter),
			kpi("Org risk", fmt.Sprintf("%.1f", p.OrgScore)),
			kpi("Compliance", fmt.Sprintf("%.1f%%", p.ComplianceReadiness)),
			kpi("Assets", p.ActiveAssets),
			kpi("Open risks", p.OpenRisks),
		),
		" " + kpiLabelStyle.Render("Posture ") + spark(p.PostureTrend),
		section("Compliance"),
	}}
	for _, f := range p.Frameworks {
		l.header = append(l.header, fmt.Sprintf(" %-14s %s %5.1f%%", truncate(f.Name, 14), bar(f.Progress, 20), f.Progress))
	}
	l.header = append(l.header, section("Initiatives"))
	for _, in := range p.Initiatives {
		l.add(fmt.Sprintf(" %-28s %-12s %s %5.1f%%", truncate(in.Name, 28), truncate(in.Status, 12), bar(in.Progress, 20), in.Progress), "")
	}
	return l
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// spark renders the first field of a series as a sparkline.
func spark(s aggregate.Series) string {
	if len(s.Fields) == 0 || len(s.Buckets) == 0 {
		return subtleStyle.Render("no data")
	}
	field := s.Fields[0]
	lo, hi := s.Buckets[0].Values[field], s.Buckets[0].Values[field]
	for _, b := range s.Buckets {
		v := b.Values[field]
		lo, hi = min(lo, v), max(hi, v)
	}
	var b strings.Builder
	for _, bk := range s.Buckets {
		i := 0
		if hi > lo {
			i = int((bk.Values[field] - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[i])
	}
	suffix := " " + field
	if s.Truncated {
		suffix += " (older data clipped)"
	}
	return b.String() + subtleStyle.Render(suffix)
}

// bar renders a 0-100 percentage as a fixed-width bar.
func bar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + subtleStyle.Render(strings.Repeat("░", width-filled))
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
