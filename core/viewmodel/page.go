package viewmodel

import (
	"time"

	"github.com/nox-hq/riskboard/core/aggregate"
	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/nav"
)

// Page is the render-ready record for one navigation state. Exactly one
// section pointer is set on a loaded page; none are set on a page built
// before any snapshot was loaded.
type Page struct {
	View        nav.View  `json:"view"`
	Title       string    `json:"title"`
	Selection   string    `json:"selection,omitempty"`
	Loaded      bool      `json:"loaded"`
	Generation  uint64    `json:"generation"`
	GeneratedAt time.Time `json:"generated_at"`

	Dashboard    *DashboardPage     `json:"dashboard,omitempty"`
	RiskProfiles *RiskProfileList   `json:"risk_profiles,omitempty"`
	RiskProfile  *RiskProfileDetail `json:"risk_profile,omitempty"`
	RiskEvents   *RiskEventsPage    `json:"risk_events,omitempty"`
	TeamRisk     *TeamRiskPage      `json:"team_risk,omitempty"`
	Phishing     *PhishingPage      `json:"phishing,omitempty"`
	Behavior     *BehaviorPage      `json:"behavior,omitempty"`
	Access       *AccessPage        `json:"access,omitempty"`
	Remediation  *RemediationPage   `json:"remediation,omitempty"`
	Organization *OrganizationPage  `json:"organization,omitempty"`
}

// Empty returns the placeholder page for state when no snapshot is loaded.
func Empty(state nav.State) *Page {
	return &Page{
		View:      state.View,
		Title:     state.View.Title(),
		Selection: state.Selection,
	}
}

// UserRow is a user with its derived risk level.
type UserRow struct {
	entity.User
	Level entity.RiskLevel `json:"level"`
}

// DashboardPage is the organization risk overview.
type DashboardPage struct {
	OrgScore          float64                 `json:"org_score"`
	OrgLevel          entity.RiskLevel        `json:"org_level"`
	TotalUsers        int                     `json:"total_users"`
	HighRiskUsers     int                     `json:"high_risk_users"`
	RecentAnomalies   int                     `json:"recent_anomalies"`
	ClickRate         float64                 `json:"click_rate"`
	Distribution      []aggregate.LevelCount  `json:"distribution"`
	RecentEvents      []entity.RiskEvent      `json:"recent_events"`
	TopUsers          []UserRow               `json:"top_users"`
	Departments       []entity.DepartmentStat `json:"departments"`
	DepartmentAverage float64                 `json:"department_average"`
	RiskTrend         aggregate.Series        `json:"risk_trend"`
}

// RiskProfileList is the ranked user list of the risk profile view.
type RiskProfileList struct {
	Users []UserRow `json:"users"`
	// Total is the number of users in the snapshot; len(Users) is smaller
	// when Query filters the list.
	Total int    `json:"total"`
	Query string `json:"query,omitempty"`
}

// RiskProfileDetail is the drill-down page for one user.
type RiskProfileDetail struct {
	User      entity.User                `json:"user"`
	Level     entity.RiskLevel           `json:"level"`
	Rank      int                        `json:"rank"`
	Total     int                        `json:"total"`
	Breakdown aggregate.Breakdown        `json:"breakdown"`
	Events    []entity.RiskEvent         `json:"events"`
	Actions   []entity.RemediationAction `json:"actions"`
	Activity  aggregate.Series           `json:"activity"`
}

// RiskEventsPage is the event log.
type RiskEventsPage struct {
	Events       []entity.RiskEvent     `json:"events"`
	Total        int                    `json:"total"`
	Distribution []aggregate.LevelCount `json:"distribution"`
}

// TeamRiskPage is the department rollup.
type TeamRiskPage struct {
	Rollup aggregate.Rollup `json:"rollup"`
}

// PhishingPage is the phishing simulation analytics view.
type PhishingPage struct {
	Summary   aggregate.CampaignStats  `json:"summary"`
	Campaigns []entity.Campaign        `json:"campaigns"`
	Trend     []entity.TimeSeriesPoint `json:"trend"`
	// Susceptible counts users whose phishing risk is High or Critical.
	Susceptible int `json:"susceptible"`
}

// BehaviorPage is the behavioral analytics view.
type BehaviorPage struct {
	Summary aggregate.AnomalyStats `json:"summary"`
	ByHour  aggregate.Series       `json:"by_hour"`
	Alerts  []entity.RiskEvent     `json:"alerts"`
	// UsersWithAnomalies counts users with at least one detected anomaly.
	UsersWithAnomalies int `json:"users_with_anomalies"`
}

// AccessPage is the access monitoring view.
type AccessPage struct {
	Summary aggregate.AccessStats   `json:"summary"`
	ByHour  aggregate.Series        `json:"by_hour"`
	Logs    []entity.AccessLogEntry `json:"logs"`
}

// RemediationPage lists remediation actions.
type RemediationPage struct {
	Summary aggregate.RemediationStats `json:"summary"`
	Actions []entity.RemediationAction `json:"actions"`
}

// OrganizationPage is the executive overview.
type OrganizationPage struct {
	Name                string                       `json:"name"`
	Grade               aggregate.Grade              `json:"grade"`
	OrgScore            float64                      `json:"org_score"`
	ComplianceReadiness float64                      `json:"compliance_readiness"`
	ActiveAssets        int                          `json:"active_assets"`
	OpenRisks           int                          `json:"open_risks"`
	PostureTrend        aggregate.Series             `json:"posture_trend"`
	Frameworks          []entity.ComplianceFramework `json:"frameworks"`
	Initiatives         []entity.Initiative          `json:"initiatives"`
}
