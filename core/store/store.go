// Package store holds the entity snapshot for a dashboard session. A Store
// is replaced wholesale by Load; readers always observe one complete
// snapshot, never a mix of old and new collections.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/nox-hq/riskboard/core/entity"
)

// ErrNotLoaded is returned by every getter before the first successful Load.
var ErrNotLoaded = errors.New("store: snapshot not loaded")

// loaded pairs a snapshot with the generation it was loaded as.
type loaded struct {
	snap       *entity.Snapshot
	generation uint64
}

// Store owns the entity collections for a session.
type Store struct {
	current atomic.Pointer[loaded]
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Load validates snap and makes a private deep copy of it the current
// snapshot. An invalid snapshot is rejected and the previous snapshot stays
// visible.
func (s *Store) Load(snap entity.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	next := &loaded{snap: snap.Clone()}
	for {
		prev := s.current.Load()
		next.generation = 1
		if prev != nil {
			next.generation = prev.generation + 1
		}
		if s.current.CompareAndSwap(prev, next) {
			return nil
		}
	}
}

// Snapshot returns the current snapshot and its generation. The returned
// snapshot is shared and must be treated as read-only.
func (s *Store) Snapshot() (*entity.Snapshot, uint64, error) {
	cur := s.current.Load()
	if cur == nil {
		return nil, 0, ErrNotLoaded
	}
	return cur.snap, cur.generation, nil
}

// Generation returns the number of successful loads, 0 before the first.
func (s *Store) Generation() uint64 {
	if cur := s.current.Load(); cur != nil {
		return cur.generation
	}
	return 0
}

// Loaded reports whether a snapshot has been loaded.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

func (s *Store) snapshot() (*entity.Snapshot, error) {
	snap, _, err := s.Snapshot()
	return snap, err
}

// Users returns a copy of the user collection.
func (s *Store) Users() ([]entity.User, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return entity.CloneUsers(snap.Users), nil
}

// ByID looks up a user by ID.
func (s *Store) ByID(id string) (entity.User, bool, error) {
	snap, err := s.snapshot()
	if err != nil {
		return entity.User{}, false, err
	}
	u, ok := UserByID(snap, id)
	return u, ok, nil
}

// UserByID looks up a user by ID within snap.
func UserByID(snap *entity.Snapshot, id string) (entity.User, bool) {
	for i := range snap.Users {
		if snap.Users[i].ID == id {
			return entity.CloneUsers(snap.Users[i : i+1])[0], true
		}
	}
	return entity.User{}, false
}

// Events returns a copy of the risk event collection.
func (s *Store) Events() ([]entity.RiskEvent, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Events), nil
}

// Campaigns returns a copy of the phishing campaign collection.
func (s *Store) Campaigns() ([]entity.Campaign, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Campaigns), nil
}

// Remediations returns a copy of the remediation action collection.
func (s *Store) Remediations() ([]entity.RemediationAction, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Remediations), nil
}

// AccessLogs returns a copy of the access log collection.
func (s *Store) AccessLogs() ([]entity.AccessLogEntry, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.AccessLogs), nil
}

// Departments returns a copy of the department statistics.
func (s *Store) Departments() ([]entity.DepartmentStat, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Departments), nil
}

// Compliance returns a copy of the compliance framework records.
func (s *Store) Compliance() ([]entity.ComplianceFramework, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Compliance), nil
}

// Initiatives returns a copy of the strategic initiatives.
func (s *Store) Initiatives() ([]entity.Initiative, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Initiatives), nil
}

// RiskTrend returns a copy of the human risk score trend series.
func (s *Store) RiskTrend() ([]entity.TimeSeriesPoint, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return entity.CloneSeries(snap.RiskTrend), nil
}

// PostureTrend returns a copy of the security posture trend series.
func (s *Store) PostureTrend() ([]entity.TimeSeriesPoint, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return entity.CloneSeries(snap.PostureTrend), nil
}

// Activity returns a copy of the behavioral activity series.
func (s *Store) Activity() ([]entity.TimeSeriesPoint, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return entity.CloneSeries(snap.Activity), nil
}
