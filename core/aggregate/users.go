package aggregate

import (
	"sort"
	"strings"

	"github.com/nox-hq/riskboard/core/entity"
)

// TopRiskUsers returns at most n users ordered by descending RiskScore, ties
// broken by ascending ID. n <= 0 yields an empty list.
func TopRiskUsers(users []entity.User, n int) []entity.User {
	if n <= 0 || len(users) == 0 {
		return []entity.User{}
	}
	ranked := RankUsers(users)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RankUsers returns a copy of users ordered by descending RiskScore, ties
// broken by ascending ID.
func RankUsers(users []entity.User) []entity.User {
	ranked := entity.CloneUsers(users)
	if ranked == nil {
		return []entity.User{}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		return a.ID < b.ID
	})
	return ranked
}

// CountAtOrAbove counts users whose RiskScore is at least threshold.
func CountAtOrAbove(users []entity.User, threshold int) int {
	n := 0
	for i := range users {
		if users[i].RiskScore >= threshold {
			n++
		}
	}
	return n
}

// OrganizationScore is the organization-level composite human risk score:
// the mean user RiskScore rounded to one decimal, 0 when there are no users.
func OrganizationScore(users []entity.User) float64 {
	if len(users) == 0 {
		return 0
	}
	total := 0
	for i := range users {
		total += users[i].RiskScore
	}
	return round1(float64(total) / float64(len(users)))
}

// SearchUsers returns the users whose name, department, role or ID contains
// query, case-insensitively. An empty query matches every user.
func SearchUsers(users []entity.User, query string) []entity.User {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []entity.User{}
	for _, u := range entity.CloneUsers(users) {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Department), q) ||
			strings.Contains(strings.ToLower(u.Role), q) ||
			strings.Contains(strings.ToLower(u.ID), q) {
			out = append(out, u)
		}
	}
	return out
}
