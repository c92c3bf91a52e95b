package viewmodel

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/nav"
	"github.com/nox-hq/riskboard/core/store"
)

var generatedAt = time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)

func fixture() *entity.Snapshot {
	ago := func(d time.Duration) time.Time { return generatedAt.Add(-d) }
	day := 24 * time.Hour
	return &entity.Snapshot{
		GeneratedAt:  generatedAt,
		Organization: entity.Organization{Name: "Acme Corp", ActiveAssets: 3402},
		Users: []entity.User{
			{ID: "a", Name: "Ada", Department: "Finance", RiskScore: 90, PhishingRisk: entity.RiskHigh, AnomaliesDetected: 3,
				Factors: &entity.RiskFactors{Behavior: 30, Phishing: 32, Access: 28}},
			{ID: "c", Name: "Cy", Department: "Engineering", RiskScore: 60, PhishingRisk: entity.RiskLow},
			{ID: "b", Name: "Bo", Department: "Finance", RiskScore: 90, PhishingRisk: entity.RiskCritical, AnomaliesDetected: 1},
		},
		Events: []entity.RiskEvent{
			{ID: "e1", UserID: "a", Level: entity.RiskHigh, Date: ago(2 * time.Hour), Category: "Off-Hour Activity"},
			{ID: "e2", UserID: "b", Level: entity.RiskCritical, Date: ago(3 * day), Category: "Data Exfiltration"},
			{ID: "e3", UserID: "a", Level: entity.RiskLow, Date: ago(10 * day), Category: "Off-Hour Activity"},
			{ID: "e4", UserID: "c", Level: entity.RiskMedium, Date: ago(1 * day)},
			{ID: "e5", UserID: "a", Level: entity.RiskMedium, Date: ago(20 * day)},
		},
		Campaigns: []entity.Campaign{
			{Name: "Payroll", LaunchDate: ago(60 * day), Targeted: 100, Clicks: 50},
			{Name: "Draft", LaunchDate: ago(5 * day)},
		},
		Remediations: []entity.RemediationAction{
			{UserID: "a", UserName: "Ada", Issue: "MFA disabled", Priority: entity.RiskHigh, Status: entity.ActionOpen},
			{UserID: "b", UserName: "Bo", Issue: "Exfiltration", Priority: entity.RiskCritical, Status: entity.ActionCompleted},
			{UserID: "a", UserName: "Ada", Issue: "Phished", Priority: entity.RiskCritical},
		},
		AccessLogs: []entity.AccessLogEntry{
			{ID: "l1", Location: "Berlin", Device: "d1", Status: entity.AccessSuccess, Timestamp: ago(time.Hour)},
			{ID: "l2", Location: "Lagos", Device: "d2", Status: entity.AccessFailed, Timestamp: ago(2 * time.Hour), Unusual: true},
		},
		Departments: []entity.DepartmentStat{
			{Name: "Engineering", Employees: 120, HighRiskCount: 1, RiskScore: 55},
			{Name: "Finance", Employees: 40, HighRiskCount: 2, RiskScore: 78},
		},
		Compliance: []entity.ComplianceFramework{{Name: "SOC2", Progress: 92}, {Name: "GDPR", Progress: 78}},
		RiskTrend: []entity.TimeSeriesPoint{
			{Time: ago(75 * day), Values: map[string]float64{"score": 76}},
			{Time: ago(1 * day), Values: map[string]float64{"score": 80}},
		},
		Activity: []entity.TimeSeriesPoint{
			{Time: time.Date(2026, 9, 30, 3, 0, 0, 0, time.UTC), Values: map[string]float64{"logins": 4}},
		},
	}
}

func assemble(t *testing.T, state nav.State) *Page {
	t.Helper()
	p, err := NewAssembler(Options{}).Assemble(fixture(), state)
	if err != nil {
		t.Fatalf("Assemble(%+v) error = %v", state, err)
	}
	if !p.Loaded || p.View != state.View || p.Title != state.View.Title() {
		t.Errorf("header = %+v", p)
	}
	return p
}

func TestAssemble_OneSectionPerView(t *testing.T) {
	for _, v := range nav.Views() {
		p := assemble(t, nav.State{View: v})
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("%s: marshal: %v", v, err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatal(err)
		}
		sections := 0
		for _, k := range []string{"dashboard", "risk_profiles", "risk_profile", "risk_events", "team_risk",
			"phishing", "behavior", "access", "remediation", "organization"} {
			if _, ok := m[k]; ok {
				sections++
			}
		}
		if sections != 1 {
			t.Errorf("%s: %d sections populated, want 1", v, sections)
		}
	}
}

func TestAssemble_Dashboard(t *testing.T) {
	d := assemble(t, nav.State{View: nav.Dashboard}).Dashboard

	if d.OrgScore != 80 || d.OrgLevel != entity.RiskHigh {
		t.Errorf("org score = %v %s, want 80 High", d.OrgScore, d.OrgLevel)
	}
	if d.TotalUsers != 3 || d.HighRiskUsers != 2 {
		t.Errorf("users = %d/%d, want 3/2", d.TotalUsers, d.HighRiskUsers)
	}
	if d.RecentAnomalies != 2 {
		t.Errorf("RecentAnomalies = %d, want 2", d.RecentAnomalies)
	}
	if d.ClickRate != 50 {
		t.Errorf("ClickRate = %v, want 50", d.ClickRate)
	}
	if len(d.Distribution) != 4 || d.Distribution[1].Count != 2 {
		t.Errorf("Distribution = %+v", d.Distribution)
	}
	if len(d.RecentEvents) != 4 || d.RecentEvents[0].ID != "e1" || d.RecentEvents[3].ID != "e3" {
		t.Errorf("RecentEvents = %+v", d.RecentEvents)
	}
	if len(d.TopUsers) != 3 || d.TopUsers[0].ID != "a" || d.TopUsers[1].ID != "b" || d.TopUsers[2].ID != "c" {
		t.Errorf("TopUsers = %+v", d.TopUsers)
	}
	if d.TopUsers[0].Level != entity.RiskCritical {
		t.Errorf("TopUsers[0].Level = %s", d.TopUsers[0].Level)
	}
	if d.Departments[0].Name != "Finance" || d.DepartmentAverage != 60.8 {
		t.Errorf("departments = %+v avg %v", d.Departments, d.DepartmentAverage)
	}
	if len(d.RiskTrend.Buckets) != 3 {
		t.Errorf("RiskTrend buckets = %d, want 3", len(d.RiskTrend.Buckets))
	}
}

func TestAssemble_TopUsersOption(t *testing.T) {
	p, err := NewAssembler(Options{TopUsers: 2}).Assemble(fixture(), nav.State{})
	if err != nil {
		t.Fatal(err)
	}
	got := p.Dashboard.TopUsers
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("TopUsers = %+v, want [a b]", got)
	}
}

func TestAssemble_RiskProfileList(t *testing.T) {
	l := assemble(t, nav.State{View: nav.RiskProfile}).RiskProfiles
	if l.Total != 3 || len(l.Users) != 3 || l.Users[0].ID != "a" || l.Users[2].ID != "c" {
		t.Errorf("list = %+v", l)
	}

	filtered := FilterUsers(l, "finance")
	if filtered.Total != 3 || len(filtered.Users) != 2 || filtered.Query != "finance" {
		t.Errorf("filtered = %+v", filtered)
	}
	if len(l.Users) != 3 {
		t.Error("FilterUsers modified the input list")
	}
	if FilterUsers(nil, "x") != nil {
		t.Error("FilterUsers(nil) != nil")
	}
}

func TestAssemble_RiskProfileDetail(t *testing.T) {
	d := assemble(t, nav.State{View: nav.RiskProfile, Selection: "a"}).RiskProfile

	if d.User.ID != "a" || d.Level != entity.RiskCritical || d.Rank != 1 || d.Total != 3 {
		t.Errorf("detail header = %+v", d)
	}
	sum := 0
	for _, f := range d.Breakdown.Factors {
		sum += f.Points
	}
	if sum != 90 || d.Breakdown.Factors[1].Points != 32 {
		t.Errorf("breakdown = %+v", d.Breakdown)
	}
	if len(d.Events) != 3 || d.Events[0].ID != "e1" {
		t.Errorf("events = %+v", d.Events)
	}
	if len(d.Actions) != 2 || d.Actions[0].Issue != "Phished" {
		t.Errorf("actions = %+v", d.Actions)
	}
	if len(d.Activity.Buckets) != 21 {
		t.Errorf("activity buckets = %d, want 21", len(d.Activity.Buckets))
	}
}

func TestAssemble_SelectionNotFound(t *testing.T) {
	_, err := NewAssembler(Options{}).Assemble(fixture(), nav.State{View: nav.RiskProfile, Selection: "ghost"})
	if !errors.Is(err, ErrSelectionNotFound) {
		t.Fatalf("error = %v, want ErrSelectionNotFound", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error %q does not name the id", err)
	}
}

func TestAssemble_NilSnapshot(t *testing.T) {
	_, err := NewAssembler(Options{}).Assemble(nil, nav.State{})
	if !errors.Is(err, store.ErrNotLoaded) {
		t.Errorf("error = %v, want ErrNotLoaded", err)
	}
}

func TestAssemble_OtherViews(t *testing.T) {
	ev := assemble(t, nav.State{View: nav.RiskEvents}).RiskEvents
	if ev.Total != 5 || ev.Events[0].ID != "e1" || ev.Events[4].ID != "e5" {
		t.Errorf("risk events = %+v", ev)
	}

	tr := assemble(t, nav.State{View: nav.TeamRisk}).TeamRisk
	if tr.Rollup.OrgAverage != 60.8 || tr.Rollup.TotalEmployees != 160 {
		t.Errorf("team risk = %+v", tr)
	}

	ph := assemble(t, nav.State{View: nav.PhishingSimulation}).Phishing
	if ph.Summary.ClickRate != 50 || ph.Campaigns[0].Name != "Draft" || ph.Susceptible != 2 || len(ph.Trend) != 2 {
		t.Errorf("phishing = %+v", ph)
	}

	bh := assemble(t, nav.State{View: nav.BehavioralAnalytics}).Behavior
	if bh.Summary.Total != 3 || len(bh.ByHour.Buckets) != 24 || bh.ByHour.Buckets[3].Values["logins"] != 4 {
		t.Errorf("behavior = %+v", bh)
	}
	if len(bh.Alerts) != 3 || bh.UsersWithAnomalies != 2 {
		t.Errorf("behavior alerts = %d users = %d", len(bh.Alerts), bh.UsersWithAnomalies)
	}

	ac := assemble(t, nav.State{View: nav.AccessMonitoring}).Access
	if ac.Summary.Total != 2 || ac.Summary.UnusualLocations != 1 || ac.Logs[0].ID != "l1" {
		t.Errorf("access = %+v", ac)
	}

	rm := assemble(t, nav.State{View: nav.Remediation}).Remediation
	if rm.Summary.Open != 2 || rm.Actions[0].Priority != entity.RiskCritical {
		t.Errorf("remediation = %+v", rm)
	}

	org := assemble(t, nav.State{View: nav.OrganizationOverview}).Organization
	if org.Name != "Acme Corp" || org.ActiveAssets != 3402 || org.OpenRisks != 2 || org.ComplianceReadiness != 85 {
		t.Errorf("organization = %+v", org)
	}
	if org.Grade.Letter != "F" || org.Grade.Posture != 20 {
		t.Errorf("grade = %+v", org.Grade)
	}
	if org.Initiatives == nil {
		t.Error("Initiatives is nil, want empty list")
	}
}

func TestAssemble_EmptySnapshot(t *testing.T) {
	asm := NewAssembler(Options{})
	for _, v := range nav.Views() {
		p, err := asm.Assemble(&entity.Snapshot{}, nav.State{View: v})
		if err != nil {
			t.Errorf("%s: error = %v", v, err)
			continue
		}
		if _, err := json.Marshal(p); err != nil {
			t.Errorf("%s: marshal: %v", v, err)
		}
	}
	p, _ := asm.Assemble(&entity.Snapshot{}, nav.State{View: nav.TeamRisk})
	if p.TeamRisk.Rollup.OrgAverage != 0 || len(p.TeamRisk.Rollup.Departments) != 0 {
		t.Errorf("empty rollup = %+v", p.TeamRisk.Rollup)
	}
}

func TestAssemble_DoesNotMutateSnapshot(t *testing.T) {
	snap := fixture()
	for _, v := range nav.Views() {
		if _, err := NewAssembler(Options{}).Assemble(snap, nav.State{View: v}); err != nil {
			t.Fatal(err)
		}
	}
	if snap.Users[0].ID != "a" || snap.Users[1].ID != "c" || snap.Events[0].ID != "e1" || snap.Departments[0].Name != "Engineering" {
		t.Error("snapshot collections were reordered")
	}
}

func TestEmpty(t *testing.T) {
	p := Empty(nav.State{View: nav.RiskEvents})
	if p.Loaded || p.RiskEvents != nil || p.Title != "Risk Events" {
		t.Errorf("Empty() = %+v", p)
	}
}

func TestOptions_Defaults(t *testing.T) {
	got := NewAssembler(Options{TopUsers: 3, RecentLogs: -1}).Options()
	want := DefaultOptions()
	want.TopUsers = 3
	if got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
}
