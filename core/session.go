// Package core binds the entity store, navigation controller and view-model
// assembler into a Session, the single entry point presentation layers use.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nox-hq/riskboard/core/entity"
	"github.com/nox-hq/riskboard/core/nav"
	"github.com/nox-hq/riskboard/core/store"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. It is also handed to the navigation
// controller.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithDevelopment makes Render panic when called before the first load.
func WithDevelopment(dev bool) SessionOption {
	return func(s *Session) {
		s.dev = dev
	}
}

// WithAssemblerOptions sets the page sizes used by Render.
func WithAssemblerOptions(o viewmodel.Options) SessionOption {
	return func(s *Session) {
		s.opts = o
	}
}

// Session is one dashboard session. It is safe for concurrent use;
// navigation and rendering are serialized.
type Session struct {
	mu     sync.Mutex
	store  *store.Store
	nav    *nav.Controller
	cache  *viewmodel.Cache
	logger *slog.Logger
	dev    bool
	opts   viewmodel.Options
}

// NewSession creates a Session on the Dashboard view with an empty store.
// Defaults: slog.Default(), production mode, viewmodel.DefaultOptions().
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		store:  store.New(),
		logger: slog.Default(),
		opts:   viewmodel.DefaultOptions(),
	}
	for _, o := range opts {
		o(s)
	}
	s.nav = nav.New(nav.WithLogger(s.logger))
	s.cache = viewmodel.NewCache(viewmodel.NewAssembler(s.opts))
	return s
}

// Load replaces the session snapshot. An invalid snapshot leaves the
// previous one in place.
func (s *Session) Load(snap entity.Snapshot) error {
	if err := s.store.Load(snap); err != nil {
		s.logger.Error("snapshot rejected", "error", err)
		return err
	}
	s.logger.Info("snapshot loaded",
		"generation", s.store.Generation(),
		"users", len(snap.Users),
		"events", len(snap.Events),
	)
	return nil
}

// LoadFile decodes the snapshot at path and loads it.
func (s *Session) LoadFile(path string) error {
	snap, err := store.LoadFile(path)
	if err != nil {
		return err
	}
	if err := s.Load(snap); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Generation returns the store generation, 0 before the first load.
func (s *Session) Generation() uint64 {
	return s.store.Generation()
}

// Loaded reports whether a snapshot has been loaded.
func (s *Session) Loaded() bool {
	return s.store.Loaded()
}

// Store returns the underlying entity store.
func (s *Session) Store() *store.Store {
	return s.store
}

// State returns the navigation state.
func (s *Session) State() nav.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.State()
}

// Navigate switches the active view and clears any selection.
func (s *Session) Navigate(v nav.View) (nav.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Navigate(v)
}

// SelectDetail drills into the entity id on the current view.
func (s *Session) SelectDetail(id string) (nav.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.SelectDetail(id)
}

// ClearDetail returns to the list form of the current view.
func (s *Session) ClearDetail() (nav.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.ClearDetail()
}

// Render returns the page for the current navigation state. It never fails:
// a stale selection is cleared and the list form rendered instead, and a
// session without a snapshot renders an empty page (or panics in
// development mode).
func (s *Session) Render() *viewmodel.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.nav.State()
	snap, gen, err := s.store.Snapshot()
	if err != nil {
		if s.dev {
			panic(fmt.Sprintf("riskboard: render before load: %v", err))
		}
		s.logger.Error("render before snapshot load", "view", state.View.Slug(), "error", err)
		return viewmodel.Empty(state)
	}

	page, err := s.cache.Page(snap, gen, state)
	if errors.Is(err, viewmodel.ErrSelectionNotFound) {
		s.logger.Warn("selection not in snapshot, showing list",
			"view", state.View.Slug(),
			"selection", state.Selection,
			"generation", gen,
		)
		if _, cerr := s.nav.ClearDetail(); cerr != nil {
			s.logger.Error("clearing stale selection", "error", cerr)
		}
		state = s.nav.State()
		page, err = s.cache.Page(snap, gen, state)
	}
	if err != nil {
		s.logger.Error("assembling page", "view", state.View.Slug(), "error", err)
		return viewmodel.Empty(state)
	}
	return page
}

// RenderAt navigates to view, optionally selects id, and renders. A
// rejected selection is logged and the view's list form is rendered.
func (s *Session) RenderAt(v nav.View, id string) (*viewmodel.Page, error) {
	if _, err := s.Navigate(v); err != nil {
		return nil, err
	}
	if id != "" {
		if _, err := s.SelectDetail(id); err != nil {
			return s.Render(), err
		}
	}
	return s.Render(), nil
}

// Peek renders state without touching navigation. Unlike Render it reports
// failures, including a selection that is not in the snapshot.
func (s *Session) Peek(state nav.State) (*viewmodel.Page, error) {
	if state.InDetail() && !state.View.SupportsDetail() {
		return nil, fmt.Errorf("%w: %s has no detail form", nav.ErrInvalidTransition, state.View.Slug())
	}
	snap, gen, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.cache.Page(snap, gen, state)
}

// Pages renders the list form of every view, in sidebar order, from a single
// snapshot generation.
func (s *Session) Pages() ([]*viewmodel.Page, error) {
	snap, gen, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	views := nav.Views()
	pages := make([]*viewmodel.Page, 0, len(views))
	for _, v := range views {
		p, err := s.cache.Page(snap, gen, nav.State{View: v})
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", v.Slug(), err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// Options returns the effective assembler options.
func (s *Session) Options() viewmodel.Options {
	return s.cache.Assembler().Options()
}
