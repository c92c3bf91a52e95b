package aggregate

import (
	"slices"
	"sort"

	"github.com/nox-hq/riskboard/core/entity"
)

// CampaignStats summarizes a set of phishing simulation campaigns.
type CampaignStats struct {
	Campaigns int `json:"campaigns"`
	Targeted  int `json:"targeted"`
	Clicks    int `json:"clicks"`
	Reports   int `json:"reports"`
	// NoClick is the number of targeted users who did not click.
	NoClick int `json:"no_click"`
	// ClickRate is Σclicks/Σtargeted as a percentage, not the mean of the
	// per-campaign rates.
	ClickRate     float64 `json:"click_rate"`
	ReportingRate float64 `json:"reporting_rate"`
}

// CampaignSummary totals campaigns and computes the overall click and
// reporting rates. Both rates are 0 when no user was targeted. The result
// does not depend on input order.
func CampaignSummary(campaigns []entity.Campaign) CampaignStats {
	s := CampaignStats{Campaigns: len(campaigns)}
	for i := range campaigns {
		c := campaigns[i]
		s.Targeted += c.Targeted
		s.Clicks += c.ClickCount()
		s.Reports += c.ReportCount()
	}
	if s.Targeted > s.Clicks {
		s.NoClick = s.Targeted - s.Clicks
	}
	s.ClickRate = percent(s.Clicks, s.Targeted)
	s.ReportingRate = percent(s.Reports, s.Targeted)
	return s
}

// SortCampaignsByLaunch returns a copy of campaigns, newest launch first,
// ties by name.
func SortCampaignsByLaunch(campaigns []entity.Campaign) []entity.Campaign {
	out := slices.Clone(campaigns)
	if out == nil {
		return []entity.Campaign{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.LaunchDate.Equal(b.LaunchDate) {
			return a.LaunchDate.After(b.LaunchDate)
		}
		return a.Name < b.Name
	})
	return out
}

// CampaignTrend returns one point per campaign in launch order (oldest
// first), labelled with the campaign name and carrying its click and
// reporting rates.
func CampaignTrend(campaigns []entity.Campaign) []entity.TimeSeriesPoint {
	sorted := SortCampaignsByLaunch(campaigns)
	slices.Reverse(sorted)
	out := make([]entity.TimeSeriesPoint, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, entity.TimeSeriesPoint{
			Label: c.Name,
			Time:  c.LaunchDate,
			Values: map[string]float64{
				"click_rate":     c.ClickRate,
				"reporting_rate": c.ReportingRate,
			},
		})
	}
	return out
}
