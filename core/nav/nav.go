// Package nav tracks which dashboard view is active and which entity, if
// any, is drilled into. All changes go through a small transition table so
// no sequence of calls can leave a selection on a view without a detail
// form.
package nav

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidTransition is returned when a navigation action is not allowed
// in the current state. The state is left unchanged.
var ErrInvalidTransition = errors.New("invalid navigation transition")

// State is the navigation state of one session.
type State struct {
	View View `json:"view"`
	// Selection is the drilled-into entity id; empty in list mode.
	Selection string `json:"selection,omitempty"`
}

// InDetail reports whether a drill-down selection is active.
func (s State) InDetail() bool { return s.Selection != "" }

// Action is a navigation operation.
type Action int

// Navigation actions.
const (
	ActionNavigate Action = iota
	ActionSelectDetail
	ActionClearDetail
)

func (a Action) String() string {
	switch a {
	case ActionNavigate:
		return "navigate"
	case ActionSelectDetail:
		return "select_detail"
	case ActionClearDetail:
		return "clear_detail"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// effect is what an allowed transition does to the state.
type effect int

const (
	reject effect = iota
	switchView
	setSelection
	clearSelection
)

type mode struct {
	detailable bool
	inDetail   bool
}

type transitionKey struct {
	mode   mode
	action Action
}

// transitions lists every allowed (mode, action) pair. Anything absent is
// rejected.
var transitions = map[transitionKey]effect{
	{mode{false, false}, ActionNavigate}: switchView,
	{mode{true, false}, ActionNavigate}:  switchView,
	{mode{true, true}, ActionNavigate}:   switchView,

	{mode{true, false}, ActionSelectDetail}: setSelection,
	{mode{true, true}, ActionSelectDetail}:  setSelection,

	{mode{true, true}, ActionClearDetail}: clearSelection,
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger used to report rejected transitions.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithInitialView starts the controller on v instead of Dashboard.
func WithInitialView(v View) ControllerOption {
	return func(c *Controller) {
		if v.Valid() {
			c.state.View = v
		}
	}
}

// Controller owns the navigation state. It is not safe for concurrent use;
// callers that share one across goroutines must serialize access.
type Controller struct {
	state  State
	logger *slog.Logger
}

// New creates a Controller on the Dashboard view with no selection.
func New(opts ...ControllerOption) *Controller {
	c := &Controller{logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Navigate switches to view and clears any selection.
func (c *Controller) Navigate(view View) (State, error) {
	if !view.Valid() {
		return c.state, c.rejected(ActionNavigate, fmt.Sprintf("unknown view %d", int(view)))
	}
	return c.apply(ActionNavigate, view, "")
}

// SelectDetail drills into the entity id. Only views that support detail
// accept a selection.
func (c *Controller) SelectDetail(id string) (State, error) {
	if id == "" {
		return c.state, c.rejected(ActionSelectDetail, "empty selection id")
	}
	return c.apply(ActionSelectDetail, c.state.View, id)
}

// ClearDetail returns to the list form of the current view. It requires an
// active selection.
func (c *Controller) ClearDetail() (State, error) {
	return c.apply(ActionClearDetail, c.state.View, "")
}

func (c *Controller) apply(action Action, view View, id string) (State, error) {
	key := transitionKey{
		mode:   mode{detailable: c.state.View.SupportsDetail(), inDetail: c.state.InDetail()},
		action: action,
	}
	switch transitions[key] {
	case switchView:
		c.state = State{View: view}
	case setSelection:
		c.state.Selection = id
	case clearSelection:
		c.state.Selection = ""
	default:
		return c.state, c.rejected(action, "not allowed")
	}
	return c.state, nil
}

func (c *Controller) rejected(action Action, reason string) error {
	c.logger.Warn("navigation rejected",
		"action", action.String(),
		"view", c.state.View.Slug(),
		"selection", c.state.Selection,
		"reason", reason,
	)
	return fmt.Errorf("%w: %s on %s: %s", ErrInvalidTransition, action, c.state.View, reason)
}
