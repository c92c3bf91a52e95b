package aggregate

import (
	"slices"
	"sort"

	"github.com/nox-hq/riskboard/core/entity"
)

// Rollup is the team-level view of departmental risk.
type Rollup struct {
	// Departments sorted by descending RiskScore, ties by name.
	Departments []entity.DepartmentStat `json:"departments"`
	// OrgAverage is the employee-weighted mean department risk score,
	// rounded to one decimal.
	OrgAverage     float64 `json:"org_average"`
	TotalEmployees int     `json:"total_employees"`
	TotalHighRisk  int     `json:"total_high_risk"`
}

// DepartmentRollup ranks departments by risk and computes the organization
// average Σ(score×employees)/Σ(employees). An empty input returns the neutral
// rollup together with ErrEmptyInput; a zero employee total yields an
// average of 0.
func DepartmentRollup(departments []entity.DepartmentStat) (Rollup, error) {
	if len(departments) == 0 {
		return Rollup{Departments: []entity.DepartmentStat{}}, ErrEmptyInput
	}

	sorted := slices.Clone(departments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RiskScore != sorted[j].RiskScore {
			return sorted[i].RiskScore > sorted[j].RiskScore
		}
		return sorted[i].Name < sorted[j].Name
	})

	r := Rollup{Departments: sorted}
	weighted := 0.0
	for i := range sorted {
		d := sorted[i]
		weighted += d.RiskScore * float64(d.Employees)
		r.TotalEmployees += d.Employees
		r.TotalHighRisk += d.HighRiskCount
	}
	if r.TotalEmployees > 0 {
		r.OrgAverage = round1(weighted / float64(r.TotalEmployees))
	}
	return r, nil
}
