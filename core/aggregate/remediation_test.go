package aggregate

import (
	"testing"

	"github.com/nox-hq/riskboard/core/entity"
)

var actions = []entity.RemediationAction{
	{UserID: "u2", UserName: "James", Issue: "Weak password", Priority: entity.RiskMedium, Status: entity.ActionOpen},
	{UserID: "u1", UserName: "Julia", Issue: "Phished", Priority: entity.RiskCritical, Status: entity.ActionCompleted, Automated: true, CompletionHours: 3},
	{UserID: "u1", UserName: "Julia", Issue: "MFA disabled", Priority: entity.RiskHigh},
	{UserID: "u3", UserName: "Ann", Issue: "Stale device", Priority: entity.RiskHigh, Status: entity.ActionCompleted, CompletionHours: 6},
}

func TestRemediationSummary(t *testing.T) {
	s := RemediationSummary(actions)
	if s.Total != 4 || s.Open != 2 || s.Completed != 2 || s.Automated != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.AutomationRate != 25 {
		t.Errorf("AutomationRate = %v, want 25", s.AutomationRate)
	}
	if s.AvgCompletionHours != 4.5 {
		t.Errorf("AvgCompletionHours = %v, want 4.5", s.AvgCompletionHours)
	}
	want := []int{0, 1, 2, 1}
	for i, c := range s.ByPriority {
		if c.Level != entity.Levels[i] || c.Count != want[i] {
			t.Errorf("ByPriority[%d] = %+v, want %d", i, c, want[i])
		}
	}
}

func TestSortActionsByPriority(t *testing.T) {
	got := SortActionsByPriority(actions)
	wantIssues := []string{"Phished", "Stale device", "MFA disabled", "Weak password"}
	for i, issue := range wantIssues {
		if got[i].Issue != issue {
			t.Errorf("got[%d] = %s, want %s", i, got[i].Issue, issue)
		}
	}
	if actions[0].Issue != "Weak password" {
		t.Error("input was reordered")
	}
}

func TestOpenActionsAndActionsForUser(t *testing.T) {
	open := OpenActions(actions)
	if len(open) != 2 || open[0].Issue != "MFA disabled" {
		t.Errorf("OpenActions() = %+v", open)
	}
	mine := ActionsForUser(actions, "u1")
	if len(mine) != 2 || mine[0].Priority != entity.RiskCritical {
		t.Errorf("ActionsForUser(u1) = %+v", mine)
	}
	if got := ActionsForUser(actions, "none"); got == nil || len(got) != 0 {
		t.Errorf("ActionsForUser(none) = %v, want empty", got)
	}
}
