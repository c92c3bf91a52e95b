package entity

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

// Snapshot is a complete set of entity collections delivered by the data
// provider. It is loaded atomically and never updated incrementally.
type Snapshot struct {
	GeneratedAt  time.Time             `json:"generated_at" yaml:"generated_at"`
	Organization Organization          `json:"organization" yaml:"organization"`
	Users        []User                `json:"users" yaml:"users"`
	Events       []RiskEvent           `json:"events" yaml:"events"`
	Campaigns    []Campaign            `json:"campaigns" yaml:"campaigns"`
	Remediations []RemediationAction   `json:"remediations" yaml:"remediations"`
	AccessLogs   []AccessLogEntry      `json:"access_logs" yaml:"access_logs"`
	Departments  []DepartmentStat      `json:"departments" yaml:"departments"`
	Compliance   []ComplianceFramework `json:"compliance" yaml:"compliance"`
	Initiatives  []Initiative          `json:"initiatives" yaml:"initiatives"`
	RiskTrend    []TimeSeriesPoint     `json:"risk_trend" yaml:"risk_trend"`
	PostureTrend []TimeSeriesPoint     `json:"posture_trend" yaml:"posture_trend"`
	Activity     []TimeSeriesPoint     `json:"activity" yaml:"activity"`
}

// Validate checks the snapshot invariants and returns every violation joined
// into one error, or nil.
func (s *Snapshot) Validate() error {
	var errs []error

	seen := make(map[string]struct{}, len(s.Users))
	for i := range s.Users {
		u := &s.Users[i]
		if u.ID == "" {
			errs = append(errs, fmt.Errorf("users[%d]: empty id", i))
		} else if _, dup := seen[u.ID]; dup {
			errs = append(errs, fmt.Errorf("users[%d]: duplicate id %q", i, u.ID))
		}
		seen[u.ID] = struct{}{}
		if u.RiskScore < 0 || u.RiskScore > 100 {
			errs = append(errs, fmt.Errorf("user %q: risk score %d outside [0,100]", u.ID, u.RiskScore))
		}
		if u.PhishingRisk != "" && !u.PhishingRisk.Valid() {
			errs = append(errs, fmt.Errorf("user %q: unknown phishing risk %q", u.ID, u.PhishingRisk))
		}
		if u.AnomaliesDetected < 0 {
			errs = append(errs, fmt.Errorf("user %q: negative anomaly count", u.ID))
		}
		if f := u.Factors; f != nil {
			for _, w := range []float64{f.Behavior, f.Phishing, f.Access} {
				if !finite(w) || w < 0 {
					errs = append(errs, fmt.Errorf("user %q: risk factor %v is negative or not finite", u.ID, w))
					break
				}
			}
		}
	}

	for i := range s.Events {
		if !s.Events[i].Level.Valid() {
			errs = append(errs, fmt.Errorf("events[%d]: unknown risk level %q", i, s.Events[i].Level))
		}
	}

	for i := range s.Campaigns {
		c := &s.Campaigns[i]
		if !validPercent(c.ClickRate) || !validPercent(c.ReportingRate) {
			errs = append(errs, fmt.Errorf("campaign %q: rate outside [0,100]", c.Name))
		}
		if c.Targeted < 0 || c.Clicks < 0 || c.Reports < 0 {
			errs = append(errs, fmt.Errorf("campaign %q: negative count", c.Name))
		}
		if c.Clicks > c.Targeted || c.Reports > c.Targeted {
			errs = append(errs, fmt.Errorf("campaign %q: more responses than targeted users", c.Name))
		}
	}

	for i := range s.Remediations {
		r := &s.Remediations[i]
		if !r.Priority.Valid() {
			errs = append(errs, fmt.Errorf("remediations[%d]: unknown priority %q", i, r.Priority))
		}
		if !finite(r.CompletionHours) || r.CompletionHours < 0 {
			errs = append(errs, fmt.Errorf("remediations[%d]: completion hours %v is negative or not finite", i, r.CompletionHours))
		}
	}

	for i := range s.Departments {
		d := &s.Departments[i]
		if d.Employees < 0 || d.HighRiskCount < 0 {
			errs = append(errs, fmt.Errorf("department %q: negative count", d.Name))
		}
		if d.HighRiskCount > d.Employees {
			errs = append(errs, fmt.Errorf("department %q: %d high-risk users exceed %d employees",
				d.Name, d.HighRiskCount, d.Employees))
		}
		if !validPercent(d.PhishingRate) {
			errs = append(errs, fmt.Errorf("department %q: phishing rate outside [0,100]", d.Name))
		}
		if !validPercent(d.RiskScore) {
			errs = append(errs, fmt.Errorf("department %q: risk score outside [0,100]", d.Name))
		}
	}

	for i := range s.Compliance {
		if !validPercent(s.Compliance[i].Progress) {
			errs = append(errs, fmt.Errorf("compliance %q: progress outside [0,100]", s.Compliance[i].Name))
		}
	}

	for i := range s.Initiatives {
		if !validPercent(s.Initiatives[i].Progress) {
			errs = append(errs, fmt.Errorf("initiative %q: progress outside [0,100]", s.Initiatives[i].Name))
		}
	}

	for _, series := range []struct {
		name   string
		points []TimeSeriesPoint
	}{
		{"risk_trend", s.RiskTrend},
		{"posture_trend", s.PostureTrend},
		{"activity", s.Activity},
	} {
		for i, p := range series.points {
			for field, v := range p.Values {
				if !finite(v) {
					errs = append(errs, fmt.Errorf("%s[%d]: value %q is not finite", series.name, i, field))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// validPercent is false for NaN and infinities as well.
func validPercent(v float64) bool {
	return v >= 0 && v <= 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clone returns a deep copy of the snapshot. Factors pointers and series
// value maps are copied so the clone shares no mutable state with s.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Users = CloneUsers(s.Users)
	c.Events = slices.Clone(s.Events)
	c.Campaigns = slices.Clone(s.Campaigns)
	c.Remediations = slices.Clone(s.Remediations)
	c.AccessLogs = slices.Clone(s.AccessLogs)
	c.Departments = slices.Clone(s.Departments)
	c.Compliance = slices.Clone(s.Compliance)
	c.Initiatives = slices.Clone(s.Initiatives)
	c.RiskTrend = CloneSeries(s.RiskTrend)
	c.PostureTrend = CloneSeries(s.PostureTrend)
	c.Activity = CloneSeries(s.Activity)
	return &c
}

// CloneUsers deep-copies a user slice, including Factors.
func CloneUsers(users []User) []User {
	if users == nil {
		return nil
	}
	out := make([]User, len(users))
	for i, u := range users {
		if u.Factors != nil {
			f := *u.Factors
			u.Factors = &f
		}
		out[i] = u
	}
	return out
}

// CloneSeries deep-copies a series, including each point's value map.
func CloneSeries(points []TimeSeriesPoint) []TimeSeriesPoint {
	if points == nil {
		return nil
	}
	out := make([]TimeSeriesPoint, len(points))
	for i, p := range points {
		p.Values = maps.Clone(p.Values)
		out[i] = p
	}
	return out
}
