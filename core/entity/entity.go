// Package entity defines the read-only domain model of a human-risk
// dashboard snapshot: users, risk events, phishing campaigns, remediation
// actions, access logs, department statistics and compliance records. Every
// collection is delivered together in a Snapshot and is never mutated once
// loaded.
package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RiskLevel is an ordered severity classification shared by risk events,
// phishing risk categories and remediation priorities.
type RiskLevel string

// Risk level constants ordered from least to most severe.
const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Levels is the fixed enum order used for distributions, sorting and
// filtering. It must not be modified.
var Levels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// levelRank maps levels to their position in Levels.
var levelRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the position of l in Levels, or -1 for an unknown level.
func (l RiskLevel) Rank() int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return -1
}

// Valid reports whether l is one of the four known levels.
func (l RiskLevel) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// ParseRiskLevel parses a level name case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown risk level %q", s)
}

// LevelForScore maps a 0-100 risk score to a level.
func LevelForScore(score int) RiskLevel {
	switch {
	case score >= 85:
		return RiskCritical
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskFactors are relative weights of the sub-factors that make up a user's
// composite risk score.
type RiskFactors struct {
	Behavior float64 `json:"behavior" yaml:"behavior"`
	Phishing float64 `json:"phishing" yaml:"phishing"`
	Access   float64 `json:"access" yaml:"access"`
}

// User is a person whose behavior contributes to organizational risk.
type User struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Role              string       `json:"role" yaml:"role"`
	Department        string       `json:"department" yaml:"department"`
	RiskScore         int          `json:"risk_score" yaml:"risk_score"`
	PhishingRisk      RiskLevel    `json:"phishing_risk" yaml:"phishing_risk"`
	AnomaliesDetected int          `json:"anomalies_detected" yaml:"anomalies_detected"`
	LastActivity      time.Time    `json:"last_activity" yaml:"last_activity"`
	LastActivityLabel string       `json:"last_activity_label,omitempty" yaml:"last_activity_label"`
	AvatarURL         string       `json:"avatar_url,omitempty" yaml:"avatar_url"`
	Factors           *RiskFactors `json:"factors,omitempty" yaml:"factors"`
	TrainingComplete  bool         `json:"training_complete" yaml:"training_complete"`
}

// RiskEvent is a single risk-relevant observation attributed to a user.
// Category names the anomaly class for behavioral events and is empty for
// other events.
type RiskEvent struct {
	ID       string    `json:"id" yaml:"id"`
	UserID   string    `json:"user_id" yaml:"user_id"`
	UserName string    `json:"user_name" yaml:"user_name"`
	Event    string    `json:"event" yaml:"event"`
	Level    RiskLevel `json:"level" yaml:"level"`
	Date     time.Time `json:"date" yaml:"date"`
	TimeAgo  string    `json:"time_ago,omitempty" yaml:"time_ago"`
	Category string    `json:"category,omitempty" yaml:"category"`
}

// Campaign is a phishing simulation campaign. Rates are percentages.
type Campaign struct {
	Name          string    `json:"name" yaml:"name"`
	LaunchDate    time.Time `json:"launch_date" yaml:"launch_date"`
	ClickRate     float64   `json:"click_rate" yaml:"click_rate"`
	ReportingRate float64   `json:"reporting_rate" yaml:"reporting_rate"`
	Targeted      int       `json:"targeted" yaml:"targeted"`
	Clicks        int       `json:"clicks" yaml:"clicks"`
	Reports       int       `json:"reports" yaml:"reports"`
}

// ClickCount returns the number of users who clicked. When the provider only
// supplied a click rate, the count is derived from rate and audience size.
func (c Campaign) ClickCount() int {
	if c.Clicks > 0 || c.ClickRate == 0 {
		return c.Clicks
	}
	return int(math.Round(c.ClickRate * float64(c.Targeted) / 100))
}

// ReportCount returns the number of users who reported the simulation,
// deriving it from ReportingRate when only the rate is known.
func (c Campaign) ReportCount() int {
	if c.Reports > 0 || c.ReportingRate == 0 {
		return c.Reports
	}
	return int(math.Round(c.ReportingRate * float64(c.Targeted) / 100))
}

// ActionStatus is the lifecycle state of a remediation action.
type ActionStatus string

// Remediation action statuses.
const (
	ActionOpen      ActionStatus = "Open"
	ActionCompleted ActionStatus = "Completed"
)

// RemediationAction is a recommended or automated step to reduce a user's
// risk.
type RemediationAction struct {
	UserID          string       `json:"user_id" yaml:"user_id"`
	UserName        string       `json:"user_name" yaml:"user_name"`
	Issue           string       `json:"issue" yaml:"issue"`
	Action          string       `json:"action" yaml:"action"`
	Priority        RiskLevel    `json:"priority" yaml:"priority"`
	Status          ActionStatus `json:"status,omitempty" yaml:"status"`
	Automated       bool         `json:"automated" yaml:"automated"`
	CompletionHours float64      `json:"completion_hours,omitempty" yaml:"completion_hours"`
}

// Completed reports whether the action has been carried out.
func (a RemediationAction) Completed() bool {
	return a.Status == ActionCompleted
}

// AccessStatus is the outcome of an access attempt.
type AccessStatus string

// Access attempt outcomes.
const (
	AccessSuccess AccessStatus = "Success"
	AccessFailed  AccessStatus = "Failed"
	AccessOther   AccessStatus = "Other"
)

// AccessLogEntry records a single login or access attempt. Unusual is set by
// the telemetry provider when the location is atypical for the user.
type AccessLogEntry struct {
	ID        string       `json:"id" yaml:"id"`
	UserID    string       `json:"user_id" yaml:"user_id"`
	UserName  string       `json:"user_name" yaml:"user_name"`
	IP        string       `json:"ip" yaml:"ip"`
	Location  string       `json:"location" yaml:"location"`
	Device    string       `json:"device" yaml:"device"`
	Status    AccessStatus `json:"status" yaml:"status"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Unusual   bool         `json:"unusual,omitempty" yaml:"unusual"`
}

// DepartmentStat is a per-department risk rollup supplied by the provider.
type DepartmentStat struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Employees     int     `json:"employees" yaml:"employees"`
	HighRiskCount int     `json:"high_risk_count" yaml:"high_risk_count"`
	PhishingRate  float64 `json:"phishing_rate" yaml:"phishing_rate"`
	RiskScore     float64 `json:"risk_score" yaml:"risk_score"`
}

// ComplianceFramework tracks readiness against one compliance framework.
type ComplianceFramework struct {
	Name     string  `json:"name" yaml:"name"`
	Progress float64 `json:"progress" yaml:"progress"`
	Color    string  `json:"color,omitempty" yaml:"color"`
}

// Initiative is a strategic security program shown on the executive view.
type Initiative struct {
	Name     string  `json:"name" yaml:"name"`
	Owner    string  `json:"owner,omitempty" yaml:"owner"`
	Status   string  `json:"status" yaml:"status"`
	Progress float64 `json:"progress" yaml:"progress"`
}

// TimeSeriesPoint is a generic labelled sample with one or more numeric
// values, used for trend, activity and access charts.
type TimeSeriesPoint struct {
	Label  string             `json:"label,omitempty" yaml:"label"`
	Time   time.Time          `json:"time" yaml:"time"`
	Values map[string]float64 `json:"values" yaml:"values"`
}

// Organization carries organization-level facts that are not collections.
type Organization struct {
	Name         string `json:"name" yaml:"name"`
	ActiveAssets int    `json:"active_assets" yaml:"active_assets"`
}
