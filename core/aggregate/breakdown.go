package aggregate

import (
	"math"
	"sort"

	"github.com/nox-hq/riskboard/core/entity"
)

// Risk score sub-factor names, in display order.
const (
	FactorBehavior = "behavior"
	FactorPhishing = "phishing"
	FactorAccess   = "access"
)

// Contribution is the share of a composite score attributed to one factor.
type Contribution struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

// Breakdown decomposes a user's composite risk score.
type Breakdown struct {
	UserID  string           `json:"user_id"`
	Score   int              `json:"score"`
	Level   entity.RiskLevel `json:"level"`
	Factors []Contribution   `json:"factors"`
	// EqualShare is true when the user had no usable sub-factor weights and
	// the score was split evenly.
	EqualShare bool `json:"equal_share"`
}

// RiskScoreBreakdown splits user.RiskScore across the behavior, phishing and
// access factors in proportion to user.Factors. Missing, all-zero, negative
// or non-finite factors fall back to equal shares. Points are apportioned by largest remainder, so
// contributions always sum exactly to the composite score.
func RiskScoreBreakdown(user entity.User) Breakdown {
	names := []string{FactorBehavior, FactorPhishing, FactorAccess}
	weights := []float64{1, 1, 1}
	equal := true
	if f := user.Factors; f != nil && usableWeights(f.Behavior, f.Phishing, f.Access) {
		weights = []float64{f.Behavior, f.Phishing, f.Access}
		equal = false
	}

	points := apportion(user.RiskScore, weights)
	factors := make([]Contribution, len(names))
	for i, name := range names {
		factors[i] = Contribution{Factor: name, Points: points[i]}
	}

	return Breakdown{
		UserID:     user.ID,
		Score:      user.RiskScore,
		Level:      entity.LevelForScore(user.RiskScore),
		Factors:    factors,
		EqualShare: equal,
	}
}

// usableWeights reports whether weights are all finite and non-negative with
// a positive finite sum.
func usableWeights(weights ...float64) bool {
	sum := 0.0
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return false
		}
		sum += w
	}
	return sum > 0 && !math.IsInf(sum, 0)
}

// apportion distributes total across weights using the largest remainder
// method. Ties in remainder go to the earlier weight. Unusable weights are
// replaced by equal ones.
func apportion(total int, weights []float64) []int {
	out := make([]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return out
	}
	if !usableWeights(weights...) {
		weights = make([]float64, len(out))
		for i := range weights {
			weights[i] = 1
		}
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(weights))
	assigned := 0
	for i, w := range weights {
		exact := float64(total) * w / sum
		floor := math.Floor(exact)
		out[i] = int(floor)
		assigned += out[i]
		rems[i] = rem{idx: i, frac: exact - floor}
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for i := 0; assigned < total; i++ {
		out[rems[i%len(rems)].idx]++
		assigned++
	}
	return out
}
