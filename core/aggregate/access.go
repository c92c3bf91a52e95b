package aggregate

import (
	"sort"

	"github.com/nox-hq/riskboard/core/entity"
)

// LocationCount is the number of access attempts from one location.
type LocationCount struct {
	Location string  `json:"location"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// AccessStats summarizes access log entries.
type AccessStats struct {
	Total            int             `json:"total"`
	Success          int             `json:"success"`
	Failed           int             `json:"failed"`
	Other            int             `json:"other"`
	FailureRate      float64         `json:"failure_rate"`
	UniqueDevices    int             `json:"unique_devices"`
	UnusualLocations int             `json:"unusual_locations"`
	TopLocations     []LocationCount `json:"top_locations"`
}

// AccessSummary counts attempts by status and ranks the topN locations by
// attempt count (ties by name). Share is the location's percentage of all
// attempts. Statuses other than Success and Failed count as Other.
func AccessSummary(logs []entity.AccessLogEntry, topN int) AccessStats {
	s := AccessStats{Total: len(logs), TopLocations: []LocationCount{}}
	devices := make(map[string]struct{})
	unusual := make(map[string]struct{})
	locations := make(map[string]int)

	for i := range logs {
		l := logs[i]
		switch l.Status {
		case entity.AccessSuccess:
			s.Success++
		case entity.AccessFailed:
			s.Failed++
		default:
			s.Other++
		}
		if l.Device != "" {
			devices[l.Device] = struct{}{}
		}
		if l.Location != "" {
			locations[l.Location]++
			if l.Unusual {
				unusual[l.Location] = struct{}{}
			}
		}
	}
	s.UniqueDevices = len(devices)
	s.UnusualLocations = len(unusual)
	s.FailureRate = percent(s.Failed, s.Total)

	if topN <= 0 {
		return s
	}
	for loc, n := range locations {
		s.TopLocations = append(s.TopLocations, LocationCount{
			Location: loc,
			Count:    n,
			Share:    percent(n, s.Total),
		})
	}
	sort.Slice(s.TopLocations, func(i, j int) bool {
		a, b := s.TopLocations[i], s.TopLocations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Location < b.Location
	})
	if len(s.TopLocations) > topN {
		s.TopLocations = s.TopLocations[:topN]
	}
	return s
}

// SortAccessLogs returns a copy of logs, newest first, ties by ID.
func SortAccessLogs(logs []entity.AccessLogEntry) []entity.AccessLogEntry {
	out := make([]entity.AccessLogEntry, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID < b.ID
	})
	return out
}

// AccessPoints converts access attempts to time series points carrying a
// count under "success", "failed" or "other".
func AccessPoints(logs []entity.AccessLogEntry) []entity.TimeSeriesPoint {
	out := make([]entity.TimeSeriesPoint, 0, len(logs))
	for i := range logs {
		field := "other"
		switch logs[i].Status {
		case entity.AccessSuccess:
			field = "success"
		case entity.AccessFailed:
			field = "failed"
		}
		out = append(out, entity.TimeSeriesPoint{
			Time:   logs[i].Timestamp,
			Values: map[string]float64{field: 1},
		})
	}
	return out
}
