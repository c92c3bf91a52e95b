package aggregate

import (
	"testing"
	"time"

	"github.com/nox-hq/riskboard/core/entity"
)

func TestAccessSummary(t *testing.T) {
	now := time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC)
	logs := []entity.AccessLogEntry{
		{ID: "1", Location: "Berlin", Device: "laptop-1", Status: entity.AccessSuccess, Timestamp: now},
		{ID: "2", Location: "Berlin", Device: "laptop-1", Status: entity.AccessSuccess, Timestamp: now},
		{ID: "3", Location: "Lagos", Device: "phone-9", Status: entity.AccessFailed, Timestamp: now, Unusual: true},
		{ID: "4", Location: "Austin", Device: "tablet", Status: "Locked", Timestamp: now},
	}

	s := AccessSummary(logs, 2)
	if s.Total != 4 || s.Success != 2 || s.Failed != 1 || s.Other != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.FailureRate != 25 {
		t.Errorf("FailureRate = %v, want 25", s.FailureRate)
	}
	if s.UniqueDevices != 3 {
		t.Errorf("UniqueDevices = %d, want 3", s.UniqueDevices)
	}
	if s.UnusualLocations != 1 {
		t.Errorf("UnusualLocations = %d, want 1", s.UnusualLocations)
	}
	if len(s.TopLocations) != 2 {
		t.Fatalf("TopLocations = %v, want 2 entries", s.TopLocations)
	}
	if got := s.TopLocations[0]; got.Location != "Berlin" || got.Count != 2 || got.Share != 50 {
		t.Errorf("TopLocations[0] = %+v", got)
	}
	if got := s.TopLocations[1]; got.Location != "Austin" {
		t.Errorf("TopLocations[1] = %+v, want Austin (tie broken by name)", got)
	}
}

func TestAccessSummary_Empty(t *testing.T) {
	s := AccessSummary(nil, 5)
	if s.Total != 0 || s.FailureRate != 0 || s.TopLocations == nil || len(s.TopLocations) != 0 {
		t.Errorf("AccessSummary(nil) = %+v", s)
	}
}

func TestAccessPointsAndSort(t *testing.T) {
	t0 := time.Date(2026, 9, 30, 8, 0, 0, 0, time.UTC)
	logs := []entity.AccessLogEntry{
		{ID: "a", Status: entity.AccessFailed, Timestamp: t0},
		{ID: "b", Status: entity.AccessSuccess, Timestamp: t0.Add(time.Hour)},
		{ID: "c", Status: entity.AccessOther, Timestamp: t0},
	}
	pts := AccessPoints(logs)
	if pts[0].Values["failed"] != 1 || pts[1].Values["success"] != 1 || pts[2].Values["other"] != 1 {
		t.Errorf("points = %+v", pts)
	}

	sorted := SortAccessLogs(logs)
	if sorted[0].ID != "b" || sorted[1].ID != "a" || sorted[2].ID != "c" {
		t.Errorf("sorted = %v %v %v", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	if logs[0].ID != "a" {
		t.Error("input was reordered")
	}
}
