// Package details provides the per-API detail table with filtering, sorting
// and pagination.
package details

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n-forsell/apicov-dashboard-tui/internal/app"
	"github.com/n-forsell/apicov-dashboard-tui/internal/dataview"
	"github.com/n-forsell/apicov-dashboard-tui/internal/filterstate"
	"github.com/n-forsell/apicov-dashboard-tui/internal/services"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/components"
	"github.com/n-forsell/apicov-dashboard-tui/internal/virtualize"
)

// coverageStep is how far one keypress moves a coverage bound.
const coverageStep = 5

// keyMap defines the key bindings specific to the details tab.
type keyMap struct {
	Search   key.Binding
	MinDown  key.Binding
	MinUp    key.Binding
	MaxDown  key.Binding
	MaxUp    key.Binding
	Usage    key.Binding
	Sort     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Reset    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Escape   key.Binding
}

// defaultKeyMap returns the default key bindings for the details tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		MinDown: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "min -5"),
		),
		MinUp: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "min +5"),
		),
		MaxDown: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "max -5"),
		),
		MaxUp: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "max +5"),
		),
		Usage: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "usage class"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort key"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll page down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave search"),
		),
	}
}

// Model represents the details tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	spinner  components.LoadingSpinner

	searchInput textinput.Model
	searching   bool

	// filters mirrors the shared store but reflects keypresses immediately,
	// before the store's debounce settles.
	filters filterstate.FilterState
	sortKey dataview.SortKey
	page    int

	scrollOffset int
}

// New creates a new details model.
func New(state *app.State, svc *services.Manager) *Model {
	input := textinput.New()
	input.Placeholder = "Filter by API name..."
	input.CharLimit = 100
	input.Width = 40

	return &Model{
		state:       state,
		services:    svc,
		keys:        defaultKeyMap(),
		spinner:     components.NewSpinner("Loading API records..."),
		searchInput: input,
		filters:     state.GetFilters(),
		page:        1,
	}
}

// Init initializes the details tab.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// CapturingInput reports whether the search input has keyboard focus. The
// root model routes printable keys here instead of treating them as global
// shortcuts while this is true.
func (m *Model) CapturingInput() bool {
	return m.searching
}

// Update handles messages for the details tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.FiltersSettledMsg:
		m.filters = msg.Filters
		if !m.searching && m.searchInput.Value() != msg.Filters.Search {
			m.searchInput.SetValue(msg.Filters.Search)
		}
		m.clampScroll()
		return m, nil

	case app.APIListLoadedMsg:
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if after := m.searchInput.Value(); after != before {
		m.pushFilters(filterstate.Partial{Search: &after})
	}
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.MinDown):
		m.adjustCoverage(0, -coverageStep)
	case key.Matches(msg, m.keys.MinUp):
		m.adjustCoverage(0, coverageStep)
	case key.Matches(msg, m.keys.MaxDown):
		m.adjustCoverage(1, -coverageStep)
	case key.Matches(msg, m.keys.MaxUp):
		m.adjustCoverage(1, coverageStep)

	case key.Matches(msg, m.keys.Usage):
		next := m.filters.Usage.Next()
		m.filters.Usage = next
		m.pushFilters(filterstate.Partial{Usage: &next})

	case key.Matches(msg, m.keys.Sort):
		m.sortKey = m.sortKey.Toggle()
		m.scrollOffset = 0

	case key.Matches(msg, m.keys.NextPage):
		m.page++
		m.scrollOffset = 0
	case key.Matches(msg, m.keys.PrevPage):
		if m.page > 1 {
			m.page--
		}
		m.scrollOffset = 0

	case key.Matches(msg, m.keys.Reset):
		m.filters = filterstate.Default()
		m.searchInput.SetValue("")
		m.page = 1
		m.scrollOffset = 0
		if m.services != nil {
			m.services.Filters().Reset()
		}

	case key.Matches(msg, m.keys.Up):
		m.scrollOffset--
		m.clampScroll()
	case key.Matches(msg, m.keys.Down):
		m.scrollOffset++
		m.clampScroll()
	case key.Matches(msg, m.keys.PageUp):
		m.scrollOffset -= m.tableHeight()
		m.clampScroll()
	case key.Matches(msg, m.keys.PageDown):
		m.scrollOffset += m.tableHeight()
		m.clampScroll()
	}

	return m, nil
}

// adjustCoverage moves one coverage bound by delta. The moved bound is
// clamped so min stays strictly below max and both stay inside [0, 100].
func (m *Model) adjustCoverage(bound, delta int) {
	cov := m.filters.Coverage
	cov[bound] += delta

	if bound == 0 {
		if cov[0] < 0 {
			cov[0] = 0
		}
		if cov[0] >= cov[1] {
			cov[0] = cov[1] - 1
		}
	} else {
		if cov[1] > 100 {
			cov[1] = 100
		}
		if cov[1] <= cov[0] {
			cov[1] = cov[0] + 1
		}
	}

	if cov == m.filters.Coverage {
		return
	}
	m.filters.Coverage = cov
	m.pushFilters(filterstate.Partial{Coverage: &cov})
}

// pushFilters forwards a partial update to the shared store, which debounces
// persistence and change events.
func (m *Model) pushFilters(p filterstate.Partial) {
	if m.services != nil {
		m.services.Filters().Update(p)
	}
}

// compute derives the current table view. It is cheap enough to run on every
// render because the pipeline is pure and record sets are bounded.
func (m *Model) compute() dataview.Result {
	res := dataview.Compute(m.state.GetRecords(), m.filters, m.sortKey, m.page)
	// Track the clamped page so repeated next-page presses cannot run away
	// past the last page.
	m.page = res.Page
	return res
}

func (m *Model) window(itemCount int) virtualize.Window {
	return virtualize.Compute(virtualize.Params{
		ItemCount:      itemCount,
		EstimateSize:   virtualize.FixedSize(1),
		ViewportHeight: m.tableHeight(),
		ScrollOffset:   m.scrollOffset,
		Overscan:       2,
	})
}

func (m *Model) clampScroll() {
	res := m.compute()
	m.scrollOffset = virtualize.ClampOffset(m.scrollOffset, len(res.PageItems), m.tableHeight())
}

// tableHeight is the number of table body rows that fit the current size.
func (m *Model) tableHeight() int {
	return max(m.height-12, 3)
}

// SetSize sets the available size for the details tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = max(min(width-30, 60), 20)
	m.clampScroll()
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Escape}
	}
	return []key.Binding{
		m.keys.Search,
		m.keys.Usage,
		m.keys.Sort,
		m.keys.Reset,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Search, m.keys.Reset},
		{m.keys.MinDown, m.keys.MinUp, m.keys.MaxDown, m.keys.MaxUp},
		{m.keys.Usage, m.keys.Sort},
		{m.keys.PrevPage, m.keys.NextPage, m.keys.Up, m.keys.Down},
	}
}
