package aggregate

import (
	"slices"
	"testing"
	"time"

	"github.com/nox-hq/riskboard/core/entity"
)

var day0 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func event(id string, level entity.RiskLevel, daysAgo int) entity.RiskEvent {
	return entity.RiskEvent{ID: id, Level: level, Date: day0.AddDate(0, 0, -daysAgo)}
}

func eventIDs(events []entity.RiskEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestRiskDistribution(t *testing.T) {
	events := []entity.RiskEvent{
		event("1", entity.RiskHigh, 0),
		event("2", entity.RiskHigh, 1),
		event("3", entity.RiskCritical, 2),
		event("4", entity.RiskLow, 3),
	}
	got := RiskDistribution(events)
	want := []LevelCount{
		{entity.RiskLow, 1},
		{entity.RiskMedium, 0},
		{entity.RiskHigh, 2},
		{entity.RiskCritical, 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("RiskDistribution() = %v, want %v", got, want)
	}

	sum := 0
	for _, c := range got {
		sum += c.Count
	}
	if sum != len(events) {
		t.Errorf("counts sum to %d, want %d", sum, len(events))
	}
}

func TestRiskDistribution_Empty(t *testing.T) {
	got := RiskDistribution(nil)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, c := range got {
		if c.Level != entity.Levels[i] || c.Count != 0 {
			t.Errorf("got[%d] = %+v, want {%s 0}", i, c, entity.Levels[i])
		}
	}
}

func TestRiskDistribution_UnknownLevelIgnored(t *testing.T) {
	got := RiskDistribution([]entity.RiskEvent{event("1", "Severe", 0), event("2", entity.RiskMedium, 0)})
	if got[1].Count != 1 {
		t.Errorf("Medium = %d, want 1", got[1].Count)
	}
	total := 0
	for _, c := range got {
		total += c.Count
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestRiskDistribution_ValidatedSnapshotCountsEveryEvent(t *testing.T) {
	snap := entity.Snapshot{Events: []entity.RiskEvent{
		event("1", entity.RiskMedium, 0),
		event("2", "Severe", 0),
		event("3", entity.RiskCritical, 0),
	}}
	if err := snap.Validate(); err == nil {
		t.Fatal("Validate() accepted an unknown level")
	}

	snap.Events = slices.DeleteFunc(snap.Events, func(e entity.RiskEvent) bool { return !e.Level.Valid() })
	if err := snap.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	sum := 0
	for _, c := range RiskDistribution(snap.Events) {
		sum += c.Count
	}
	if sum != len(snap.Events) {
		t.Errorf("counts sum to %d, want %d", sum, len(snap.Events))
	}
}

func TestRecentEvents(t *testing.T) {
	events := []entity.RiskEvent{
		event("old", entity.RiskLow, 10),
		event("b", entity.RiskHigh, 0),
		event("a", entity.RiskHigh, 0),
		event("mid", entity.RiskMedium, 3),
	}
	before := slices.Clone(events)

	got := eventIDs(RecentEvents(events, 3))
	want := []string{"a", "b", "mid"}
	if !slices.Equal(got, want) {
		t.Errorf("RecentEvents() = %v, want %v", got, want)
	}
	if !slices.Equal(eventIDs(events), eventIDs(before)) {
		t.Error("input was reordered")
	}
	if got := RecentEvents(events, 0); len(got) != 0 {
		t.Errorf("RecentEvents(0) = %v, want empty", got)
	}
}

func TestEventsSinceAndForUser(t *testing.T) {
	events := []entity.RiskEvent{
		{ID: "1", UserID: "u1", Date: day0},
		{ID: "2", UserID: "u2", Date: day0.AddDate(0, 0, -8)},
		{ID: "3", UserID: "u1", Date: day0.AddDate(0, 0, -7)},
	}
	if got := EventsSince(events, day0.AddDate(0, 0, -7)); got != 2 {
		t.Errorf("EventsSince() = %d, want 2", got)
	}
	if got := eventIDs(EventsForUser(events, "u1")); !slices.Equal(got, []string{"1", "3"}) {
		t.Errorf("EventsForUser() = %v", got)
	}
	if got := EventsForUser(events, "nobody"); got == nil || len(got) != 0 {
		t.Errorf("EventsForUser(nobody) = %v, want empty", got)
	}
}

func TestAnomalySummary(t *testing.T) {
	events := []entity.RiskEvent{
		{ID: "1", Category: "Off-Hour Activity"},
		{ID: "2", Category: "Data Exfiltration"},
		{ID: "3", Category: "Off-Hour Activity"},
		{ID: "4"},
	}
	s := AnomalySummary(events)
	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	want := []CategoryCount{{"Off-Hour Activity", 2}, {"Data Exfiltration", 1}}
	if !slices.Equal(s.ByCategory, want) {
		t.Errorf("ByCategory = %v, want %v", s.ByCategory, want)
	}
	if got := s.CategoryTotal("Data Exfiltration"); got != 1 {
		t.Errorf("CategoryTotal() = %d, want 1", got)
	}
	if got := s.CategoryTotal("Unknown"); got != 0 {
		t.Errorf("CategoryTotal(Unknown) = %d, want 0", got)
	}
	if got := eventIDs(Anomalies(events)); len(got) != 3 {
		t.Errorf("Anomalies() = %v, want 3 events", got)
	}
}

func TestEventPoints(t *testing.T) {
	pts := EventPoints([]entity.RiskEvent{
		{ID: "1", Level: entity.RiskHigh, Category: "Privilege Escalation", Date: day0},
	})
	if len(pts) != 1 {
		t.Fatalf("len = %d, want 1", len(pts))
	}
	v := pts[0].Values
	if v["events"] != 1 || v["High"] != 1 || v["anomaly"] != 1 {
		t.Errorf("values = %v", v)
	}
}
