package aggregate

import (
	"slices"
	"sort"

	"github.com/nox-hq/riskboard/core/entity"
)

// RemediationStats summarizes remediation actions.
type RemediationStats struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	Completed int `json:"completed"`
	Automated int `json:"automated"`
	// AutomationRate is the percentage of actions carried out automatically.
	AutomationRate float64 `json:"automation_rate"`
	// AvgCompletionHours is the mean time to complete over completed actions
	// that report one, rounded to one decimal.
	AvgCompletionHours float64      `json:"avg_completion_hours"`
	ByPriority         []LevelCount `json:"by_priority"`
}

// RemediationSummary counts actions by status, automation and priority.
// ByPriority always holds all four levels in enum order.
func RemediationSummary(actions []entity.RemediationAction) RemediationStats {
	s := RemediationStats{Total: len(actions)}
	hours, timed := 0.0, 0
	for i := range actions {
		a := actions[i]
		if a.Completed() {
			s.Completed++
			if a.CompletionHours > 0 {
				hours += a.CompletionHours
				timed++
			}
		} else {
			s.Open++
		}
		if a.Automated {
			s.Automated++
		}
	}
	s.AutomationRate = percent(s.Automated, s.Total)
	if timed > 0 {
		s.AvgCompletionHours = round1(hours / float64(timed))
	}
	s.ByPriority = distribution(len(actions), func(i int) entity.RiskLevel { return actions[i].Priority })
	return s
}

// SortActionsByPriority returns a copy of actions ordered by descending
// priority (Critical first), then user name, then issue.
func SortActionsByPriority(actions []entity.RemediationAction) []entity.RemediationAction {
	out := slices.Clone(actions)
	if out == nil {
		return []entity.RemediationAction{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		return a.Issue < b.Issue
	})
	return out
}

// OpenActions returns the actions not yet completed, ordered by priority.
func OpenActions(actions []entity.RemediationAction) []entity.RemediationAction {
	var open []entity.RemediationAction
	for i := range actions {
		if !actions[i].Completed() {
			open = append(open, actions[i])
		}
	}
	return SortActionsByPriority(open)
}

// ActionsForUser returns the actions for userID, ordered by priority.
func ActionsForUser(actions []entity.RemediationAction, userID string) []entity.RemediationAction {
	var mine []entity.RemediationAction
	for i := range actions {
		if actions[i].UserID == userID {
			mine = append(mine, actions[i])
		}
	}
	return SortActionsByPriority(mine)
}
