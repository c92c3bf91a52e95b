// Package viewmodel binds a navigation state to the aggregates its view
// needs and produces a plain Page record for a presentation layer.
package viewmodel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nox-hq/riskboard/core/aggregate"
	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/nav"
	"github.com/nox-hq/riskboard/core/store"
)

// ErrSelectionNotFound is returned when the navigation state selects an
// entity that is not in the snapshot. Callers fall back to the list form.
var ErrSelectionNotFound = errors.New("selection not found in snapshot")

// Options tunes the sizes and windows of assembled pages.
type Options struct {
	// TopUsers is the length of the dashboard's top-risk list.
	TopUsers int `json:"top_users" yaml:"top_users"`
	// RecentEvents is the number of events on the dashboard.
	RecentEvents int `json:"recent_events" yaml:"recent_events"`
	// RecentWindow bounds the dashboard's recent anomaly count, measured
	// back from the snapshot's GeneratedAt.
	RecentWindow time.Duration `json:"recent_window" yaml:"recent_window"`
	// HighRiskThreshold is the minimum score counted as high risk.
	HighRiskThreshold int `json:"high_risk_threshold" yaml:"high_risk_threshold"`
	TopLocations      int `json:"top_locations" yaml:"top_locations"`
	// RecentLogs bounds access log and behavioral alert lists.
	RecentLogs int `json:"recent_logs" yaml:"recent_logs"`
}

// DefaultOptions returns the standard page sizes.
func DefaultOptions() Options {
	return Options{
		TopUsers:          10,
		RecentEvents:      4,
		RecentWindow:      7 * 24 * time.Hour,
		HighRiskThreshold: 70,
		TopLocations:      5,
		RecentLogs:        20,
	}
}

// withDefaults fills unset or non-positive fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopUsers <= 0 {
		o.TopUsers = d.TopUsers
	}
	if o.RecentEvents <= 0 {
		o.RecentEvents = d.RecentEvents
	}
	if o.RecentWindow <= 0 {
		o.RecentWindow = d.RecentWindow
	}
	if o.HighRiskThreshold <= 0 {
		o.HighRiskThreshold = d.HighRiskThreshold
	}
	if o.TopLocations <= 0 {
		o.TopLocations = d.TopLocations
	}
	if o.RecentLogs <= 0 {
		o.RecentLogs = d.RecentLogs
	}
	return o
}

// Assembler builds pages. It holds no state besides its options and is safe
// for concurrent use.
type Assembler struct {
	opts Options
}

// NewAssembler returns an Assembler using opts, with zero fields defaulted.
func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (a *Assembler) Options() Options {
	return a.opts
}

// Assemble builds the page for state from snap. It fails with
// ErrSelectionNotFound when state selects a user absent from snap.
func (a *Assembler) Assemble(snap *entity.Snapshot, state nav.State) (*Page, error) {
	if snap == nil {
		return nil, store.ErrNotLoaded
	}
	if !state.View.Valid() {
		return nil, fmt.Errorf("assemble: unknown view %d", int(state.View))
	}

	p := &Page{
		View:        state.View,
		Title:       state.View.Title(),
		Selection:   state.Selection,
		Loaded:      true,
		GeneratedAt: snap.GeneratedAt,
	}

	switch state.View {
	case nav.Dashboard:
		p.Dashboard = a.dashboard(snap)
	case nav.RiskProfile:
		if state.InDetail() {
			detail, err := a.riskProfileDetail(snap, state.Selection)
			if err != nil {
				return nil, err
			}
			p.RiskProfile = detail
		} else {
			p.RiskProfiles = a.riskProfileList(snap)
		}
	case nav.RiskEvents:
		p.RiskEvents = a.riskEvents(snap)
	case nav.TeamRisk:
		p.TeamRisk = a.teamRisk(snap)
	case nav.PhishingSimulation:
		p.Phishing = a.phishing(snap)
	case nav.BehavioralAnalytics:
		p.Behavior = a.behavior(snap)
	case nav.AccessMonitoring:
		p.Access = a.access(snap)
	case nav.Remediation:
		p.Remediation = a.remediation(snap)
	case nav.OrganizationOverview:
		p.Organization = a.organization(snap)
	}
	return p, nil
}

func rows(users []entity.User) []UserRow {
	out := make([]UserRow, len(users))
	for i, u := range users {
		out[i] = UserRow{User: u, Level: entity.LevelForScore(u.RiskScore)}
	}
	return out
}

// rollup recovers the neutral result of an empty department list.
func rollup(deps []entity.DepartmentStat) aggregate.Rollup {
	r, err := aggregate.DepartmentRollup(deps)
	if err != nil && !errors.Is(err, aggregate.ErrEmptyInput) {
		return aggregate.Rollup{Departments: []entity.DepartmentStat{}}
	}
	return r
}

func (a *Assembler) dashboard(snap *entity.Snapshot) *DashboardPage {
	score := aggregate.OrganizationScore(snap.Users)
	r := rollup(snap.Departments)
	since := snap.GeneratedAt.Add(-a.opts.RecentWindow)
	return &DashboardPage{
		OrgScore:          score,
		OrgLevel:          entity.LevelForScore(int(math.Round(score))),
		TotalUsers:        len(snap.Users),
		HighRiskUsers:     aggregate.CountAtOrAbove(snap.Users, a.opts.HighRiskThreshold),
		RecentAnomalies:   aggregate.EventsSince(aggregate.Anomalies(snap.Events), since),
		ClickRate:         aggregate.CampaignSummary(snap.Campaigns).ClickRate,
		Distribution:      aggregate.RiskDistribution(snap.Events),
		RecentEvents:      aggregate.RecentEvents(snap.Events, a.opts.RecentEvents),
		TopUsers:          rows(aggregate.TopRiskUsers(snap.Users, a.opts.TopUsers)),
		Departments:       r.Departments,
		DepartmentAverage: r.OrgAverage,
		RiskTrend:         aggregate.BucketTimeSeries(snap.RiskTrend, aggregate.BucketMonth),
	}
}

func (a *Assembler) riskProfileList(snap *entity.Snapshot) *RiskProfileList {
	return &RiskProfileList{
		Users: rows(aggregate.RankUsers(snap.Users)),
		Total: len(snap.Users),
	}
}

func (a *Assembler) riskProfileDetail(snap *entity.Snapshot, id string) (*RiskProfileDetail, error) {
	user, ok := store.UserByID(snap, id)
	if !ok {
		return nil, fmt.Errorf("%w: user %q", ErrSelectionNotFound, id)
	}

	rank := 0
	for i, u := range aggregate.RankUsers(snap.Users) {
		if u.ID == id {
			rank = i + 1
			break
		}
	}

	events := aggregate.EventsForUser(snap.Events, id)
	return &RiskProfileDetail{
		User:      user,
		Level:     entity.LevelForScore(user.RiskScore),
		Rank:      rank,
		Total:     len(snap.Users),
		Breakdown: aggregate.RiskScoreBreakdown(user),
		Events:    events,
		Actions:   aggregate.ActionsForUser(snap.Remediations, id),
		Activity:  aggregate.BucketTimeSeries(aggregate.EventPoints(events), aggregate.BucketDay),
	}, nil
}

func (a *Assembler) riskEvents(snap *entity.Snapshot) *RiskEventsPage {
	return &RiskEventsPage{
		Events:       aggregate.SortEventsByRecency(snap.Events),
		Total:        len(snap.Events),
		Distribution: aggregate.RiskDistribution(snap.Events),
	}
}

func (a *Assembler) teamRisk(snap *entity.Snapshot) *TeamRiskPage {
	return &TeamRiskPage{Rollup: rollup(snap.Departments)}
}

func (a *Assembler) phishing(snap *entity.Snapshot) *PhishingPage {
	susceptible := 0
	for i := range snap.Users {
		if snap.Users[i].PhishingRisk.Rank() >= entity.RiskHigh.Rank() {
			susceptible++
		}
	}
	return &PhishingPage{
		Summary:     aggregate.CampaignSummary(snap.Campaigns),
		Campaigns:   aggregate.SortCampaignsByLaunch(snap.Campaigns),
		Trend:       aggregate.CampaignTrend(snap.Campaigns),
		Susceptible: susceptible,
	}
}

func (a *Assembler) behavior(snap *entity.Snapshot) *BehaviorPage {
	alerts := aggregate.Anomalies(snap.Events)
	if len(alerts) > a.opts.RecentLogs {
		alerts = alerts[:a.opts.RecentLogs]
	}
	withAnomalies := 0
	for i := range snap.Users {
		if snap.Users[i].AnomaliesDetected > 0 {
			withAnomalies++
		}
	}
	return &BehaviorPage{
		Summary:            aggregate.AnomalySummary(snap.Events),
		ByHour:             aggregate.BucketTimeSeries(snap.Activity, aggregate.BucketHourOfDay),
		Alerts:             alerts,
		UsersWithAnomalies: withAnomalies,
	}
}

func (a *Assembler) access(snap *entity.Snapshot) *AccessPage {
	logs := aggregate.SortAccessLogs(snap.AccessLogs)
	if len(logs) > a.opts.RecentLogs {
		logs = logs[:a.opts.RecentLogs]
	}
	return &AccessPage{
		Summary: aggregate.AccessSummary(snap.AccessLogs, a.opts.TopLocations),
		ByHour:  aggregate.BucketTimeSeries(aggregate.AccessPoints(snap.AccessLogs), aggregate.BucketHourOfDay),
		Logs:    logs,
	}
}

func (a *Assembler) remediation(snap *entity.Snapshot) *RemediationPage {
	return &RemediationPage{
		Summary: aggregate.RemediationSummary(snap.Remediations),
		Actions: aggregate.SortActionsByPriority(snap.Remediations),
	}
}

func (a *Assembler) organization(snap *entity.Snapshot) *OrganizationPage {
	score := aggregate.OrganizationScore(snap.Users)
	return &OrganizationPage{
		Name:                snap.Organization.Name,
		Grade:               aggregate.PostureGrade(score),
		OrgScore:            score,
		ComplianceReadiness: aggregate.ComplianceReadiness(snap.Compliance),
		ActiveAssets:        snap.Organization.ActiveAssets,
		OpenRisks:           aggregate.RemediationSummary(snap.Remediations).Open,
		PostureTrend:        aggregate.BucketTimeSeries(snap.PostureTrend, aggregate.BucketMonth),
		Frameworks:          nonNil(snap.Compliance),
		Initiatives:         nonNil(snap.Initiatives),
	}
}

// nonNil returns s, or an empty slice when s is nil, so pages encode empty
// lists as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FilterUsers returns a copy of list holding only the users that match
// query (see aggregate.SearchUsers). Total is preserved.
func FilterUsers(list *RiskProfileList, query string) *RiskProfileList {
	if list == nil {
		return nil
	}
	users := make([]entity.User, len(list.Users))
	for i, r := range list.Users {
		users[i] = r.User
	}
	return &RiskProfileList{
		Users: rows(aggregate.SearchUsers(users, query)),
		Total: list.Total,
		Query: query,
	}
}
