package tui

import (
	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

// filterState tracks the risk profile list filter.
type filterState struct {
	levelIdx  int    // -1 = all, otherwise an index into entity.Levels
	search    string // free-text search query
	searching bool   // true when search input is active
}

func newFilterState() filterState {
	return filterState{levelIdx: -1}
}

// cycleLevel advances the level filter, most severe first, then back to all.
func (f *filterState) cycleLevel() {
	if f.levelIdx < 0 {
		f.levelIdx = len(entity.Levels) - 1
		return
	}
	f.levelIdx--
}

// activeLevel returns the level filter label, "all" when unset.
func (f *filterState) activeLevel() string {
	if f.levelIdx < 0 {
		return "all"
	}
	return string(entity.Levels[f.levelIdx])
}

// apply returns the users of list that pass the search and level filters.
func (f *filterState) apply(list *viewmodel.RiskProfileList) []viewmodel.UserRow {
	if list == nil {
		return nil
	}
	if f.search != "" {
		list = viewmodel.FilterUsers(list, f.search)
	}
	if f.levelIdx < 0 {
		return list.Users
	}
	want := entity.Levels[f.levelIdx]
	var out []viewmodel.UserRow
	for _, u := range list.Users {
		if u.Level == want {
			out = append(out, u)
		}
	}
	return out
}
