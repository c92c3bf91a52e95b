// Package tui provides an interactive terminal dashboard over a riskboard
// Session using the Bubble Tea framework.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nox-hq/riskboard/core"
	"github.com/nox-hq/riskboard/core/nav"
	"github.com/nox-hq/riskboard/core/viewmodel"
)

// Model is the root Bubble Tea model. It holds no dashboard data of its own:
// every key press becomes a Session transition and the page is re-rendered
// from the Session.
type Model struct {
	session *core.Session
	reload  func() error
	page    *viewmodel.Page
	filter  filterState
	cursor  int
	status  string
	width   int
	height  int
}

// Option configures a Model.
type Option func(*Model)

// WithReload sets the function the refresh key calls before re-rendering.
func WithReload(fn func() error) Option {
	return func(m *Model) { m.reload = fn }
}

// New creates a Model over session, rendering its current state.
func New(session *core.Session, opts ...Option) *Model {
	m := &Model{
		session: session,
		filter:  newFilterState(),
		width:   100,
		height:  30,
	}
	for _, o := range opts {
		o(m)
	}
	m.render()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	return renderFrame(m)
}

// Page returns the page currently on screen.
func (m *Model) Page() *viewmodel.Page {
	return m.page
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.searching {
		return m.handleSearchKey(msg)
	}
	m.status = ""

	switch {
	case matchesBinding(msg, keys.Quit):
		return m, tea.Quit

	case matchesBinding(msg, keys.NextView):
		m.navigate(m.viewOffset(1))

	case matchesBinding(msg, keys.PrevView):
		m.navigate(m.viewOffset(-1))

	case matchesBinding(msg, keys.Refresh):
		m.refresh()

	default:
		if v, ok := viewForDigit(msg.String()); ok {
			m.navigate(v)
			return m, nil
		}
		if m.page.RiskProfile != nil {
			return m.handleDetailKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := rowUsers(m)
	switch {
	case matchesBinding(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case matchesBinding(msg, keys.Down):
		if m.cursor < len(ids)-1 {
			m.cursor++
		}

	case matchesBinding(msg, keys.Enter):
		if m.cursor >= len(ids) || ids[m.cursor] == "" {
			m.status = fmt.Sprintf("%s has no row to open", m.page.Title)
			return m, nil
		}
		m.openProfile(ids[m.cursor])

	case matchesBinding(msg, keys.Back):
		m.transition(m.session.ClearDetail())

	case matchesBinding(msg, keys.Search):
		if m.page.View == nav.RiskProfile {
			m.filter.searching = true
		}

	case matchesBinding(msg, keys.Level):
		if m.page.View == nav.RiskProfile {
			m.filter.cycleLevel()
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matchesBinding(msg, keys.Back):
		m.transition(m.session.ClearDetail())

	case matchesBinding(msg, keys.NextItem), matchesBinding(msg, keys.Down):
		m.stepProfile(1)

	case matchesBinding(msg, keys.PrevItem), matchesBinding(msg, keys.Up):
		m.stepProfile(-1)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filter.searching = false
	case "backspace":
		if len(m.filter.search) > 0 {
			m.filter.search = m.filter.search[:len(m.filter.search)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.filter.search += msg.String()
		}
	}
	m.cursor = 0
	return m, nil
}

// navigate switches views through the Session, resetting the cursor.
func (m *Model) navigate(v nav.View) {
	m.cursor = 0
	m.transition(m.session.Navigate(v))
}

// openProfile drills into a user's risk profile from any list.
func (m *Model) openProfile(id string) {
	if m.page.View != nav.RiskProfile {
		if _, err := m.session.Navigate(nav.RiskProfile); err != nil {
			m.status = err.Error()
			return
		}
	}
	m.transition(m.session.SelectDetail(id))
}

// stepProfile moves the detail page to the next or previous user of the
// filtered list.
func (m *Model) stepProfile(delta int) {
	list, err := m.session.Peek(nav.State{View: nav.RiskProfile})
	if err != nil {
		m.status = err.Error()
		return
	}
	users := m.filter.apply(list.RiskProfiles)
	cur := m.page.RiskProfile.User.ID
	for i, u := range users {
		if u.ID == cur {
			j := i + delta
			if j < 0 || j >= len(users) {
				return
			}
			m.cursor = j
			m.transition(m.session.SelectDetail(users[j].ID))
			return
		}
	}
}

func (m *Model) refresh() {
	if m.reload == nil {
		m.render()
		return
	}
	if err := m.reload(); err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.render()
	m.status = fmt.Sprintf("reloaded snapshot (generation %d)", m.session.Generation())
}

// transition records a rejected transition in the status line and
// re-renders the page either way.
func (m *Model) transition(_ nav.State, err error) {
	if err != nil {
		m.status = err.Error()
	}
	m.render()
}

func (m *Model) render() {
	m.page = m.session.Render()
	if n := len(rowUsers(m)); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) viewOffset(delta int) nav.View {
	views := nav.Views()
	i := (int(m.page.View) + delta + len(views)) % len(views)
	return views[i]
}

// viewForDigit maps "1".."9" to the views in sidebar order.
func viewForDigit(s string) (nav.View, bool) {
	views := nav.Views()
	if len(s) != 1 || s[0] < '1' || int(s[0]-'1') >= len(views) {
		return 0, false
	}
	return views[s[0]-'1'], true
}

// matchesBinding checks if a key message matches a key binding.
func matchesBinding(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}
