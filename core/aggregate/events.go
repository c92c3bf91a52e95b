package aggregate

import (
	"slices"
	"sort"
	"time"

	"github.com/nox-hq/riskboard/core/entity"
)

// LevelCount is the number of items at one risk level.
type LevelCount struct {
	Level entity.RiskLevel `json:"level"`
	Count int              `json:"count"`
}

// CategoryCount is the number of anomalies in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AnomalyStats summarizes behavioral anomalies.
type AnomalyStats struct {
	Total      int             `json:"total"`
	ByCategory []CategoryCount `json:"by_category"`
}

// RiskDistribution counts events per risk level. The result always holds all
// four levels in entity.Levels order, including zero counts. Events with an
// unknown level are not counted, so the counts sum to len(events) only for
// events that passed entity.Snapshot.Validate, which rejects unknown levels.
func RiskDistribution(events []entity.RiskEvent) []LevelCount {
	return distribution(len(events), func(i int) entity.RiskLevel { return events[i].Level })
}

func distribution(n int, level func(int) entity.RiskLevel) []LevelCount {
	out := make([]LevelCount, len(entity.Levels))
	for i, l := range entity.Levels {
		out[i].Level = l
	}
	for i := 0; i < n; i++ {
		if r := level(i).Rank(); r >= 0 {
			out[r].Count++
		}
	}
	return out
}

// SortEventsByRecency returns a copy of events, newest first, ties broken by
// ascending ID.
func SortEventsByRecency(events []entity.RiskEvent) []entity.RiskEvent {
	out := slices.Clone(events)
	if out == nil {
		return []entity.RiskEvent{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})
	return out
}

// RecentEvents returns the n newest events. n <= 0 yields an empty list.
func RecentEvents(events []entity.RiskEvent, n int) []entity.RiskEvent {
	if n <= 0 {
		return []entity.RiskEvent{}
	}
	sorted := SortEventsByRecency(events)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// EventsSince counts events dated at or after since.
func EventsSince(events []entity.RiskEvent, since time.Time) int {
	n := 0
	for i := range events {
		if !events[i].Date.Before(since) {
			n++
		}
	}
	return n
}

// EventsForUser returns the events attributed to userID, newest first.
func EventsForUser(events []entity.RiskEvent, userID string) []entity.RiskEvent {
	var mine []entity.RiskEvent
	for i := range events {
		if events[i].UserID == userID {
			mine = append(mine, events[i])
		}
	}
	return SortEventsByRecency(mine)
}

// Anomalies returns the behavioral events (those with a category), newest
// first.
func Anomalies(events []entity.RiskEvent) []entity.RiskEvent {
	var out []entity.RiskEvent
	for i := range events {
		if events[i].Category != "" {
			out = append(out, events[i])
		}
	}
	return SortEventsByRecency(out)
}

// AnomalySummary counts behavioral events per category, ordered by
// descending count then category name.
func AnomalySummary(events []entity.RiskEvent) AnomalyStats {
	counts := make(map[string]int)
	total := 0
	for i := range events {
		if c := events[i].Category; c != "" {
			counts[c]++
			total++
		}
	}

	by := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		by = append(by, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(by, func(i, j int) bool {
		if by[i].Count != by[j].Count {
			return by[i].Count > by[j].Count
		}
		return by[i].Category < by[j].Category
	})

	return AnomalyStats{Total: total, ByCategory: by}
}

// CategoryTotal returns the count recorded for category, or 0.
func (a AnomalyStats) CategoryTotal(category string) int {
	for _, c := range a.ByCategory {
		if c.Category == category {
			return c.Count
		}
	}
	return 0
}

// EventPoints converts events to time series points carrying one count per
// risk level plus an "anomaly" count, suitable for BucketTimeSeries.
func EventPoints(events []entity.RiskEvent) []entity.TimeSeriesPoint {
	out := make([]entity.TimeSeriesPoint, 0, len(events))
	for i := range events {
		e := events[i]
		values := map[string]float64{"events": 1}
		if e.Level.Valid() {
			values[string(e.Level)] = 1
		}
		if e.Category != "" {
			values["anomaly"] = 1
		}
		out = append(out, entity.TimeSeriesPoint{Time: e.Date, Values: values})
	}
	return out
}
