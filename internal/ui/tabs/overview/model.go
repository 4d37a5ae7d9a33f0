// Package overview provides the summary tab with aggregate metrics and the
// coverage-vs-usage scatter for the selected date range.
package overview

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n-forsell/apicov-dashboard-tui/internal/app"
	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/services"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	StartBack    key.Binding
	StartForward key.Binding
	EndBack      key.Binding
	EndForward   key.Binding
	Today        key.Binding
	NextDate     key.Binding
	PrevDate     key.Binding
	Up           key.Binding
	Down         key.Binding
}

// defaultKeyMap returns the default key bindings for the overview tab.
func defaultKeyMap() keyMap {
	return keyMap{
		StartBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "start -1 day"),
		),
		StartForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "start +1 day"),
		),
		EndBack: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "end -1 day"),
		),
		EndForward: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "end +1 day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		NextDate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "next date"),
		),
		PrevDate: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "prev date"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the overview tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	spinner  components.LoadingSpinner
	bar      components.CoverageBar
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new overview model.
func New(state *app.State, svc *services.Manager) *Model {
	return &Model{
		state:    state,
		services: svc,
		spinner:  components.NewSpinner("Loading coverage data..."),
		bar:      components.NewCoverageBar(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the overview tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the overview tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.StartBack):
		m.adjustRange(-1, 0)
	case key.Matches(msg, m.keys.StartForward):
		m.adjustRange(1, 0)
	case key.Matches(msg, m.keys.EndBack):
		m.adjustRange(0, -1)
	case key.Matches(msg, m.keys.EndForward):
		m.adjustRange(0, 1)
	case key.Matches(msg, m.keys.Today):
		if m.services != nil {
			m.services.Dates().Set(daterange.Default())
		}
	case key.Matches(msg, m.keys.NextDate):
		return m, m.cycleDate(1)
	case key.Matches(msg, m.keys.PrevDate):
		return m, m.cycleDate(-1)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cycleDate steps the scatter/list date through the days of the active
// range, clamping at the endpoints. The refetch itself happens in the root
// model once the selection message lands.
func (m *Model) cycleDate(delta int) tea.Cmd {
	days := daterange.Enumerate(m.state.GetRange())
	if len(days) == 0 {
		return nil
	}

	idx := 0
	current := m.state.SelectedDate()
	for i, d := range days {
		if d == current {
			idx = i
			break
		}
	}

	idx = min(max(idx+delta, 0), len(days)-1)
	if days[idx] == current {
		return nil
	}

	date := days[idx]
	return func() tea.Msg {
		return app.DateSelectedMsg{Date: date}
	}
}

// adjustRange shifts the start or end of the active range by whole days. The
// bound being moved never crosses the other one, so the range stays valid.
func (m *Model) adjustRange(startDelta, endDelta int) {
	if m.services == nil {
		return
	}

	r := m.services.Dates().Get()
	start, err := time.ParseInLocation(daterange.DateFormat, r.Start, time.Local)
	if err != nil {
		return
	}
	end, err := time.ParseInLocation(daterange.DateFormat, r.End, time.Local)
	if err != nil {
		return
	}

	start = start.AddDate(0, 0, startDelta)
	end = end.AddDate(0, 0, endDelta)

	if startDelta != 0 && start.After(end) {
		start = end
	}
	if endDelta != 0 && end.Before(start) {
		end = start
	}

	m.services.Dates().Set(daterange.Range{
		Start: start.Format(daterange.DateFormat),
		End:   end.Format(daterange.DateFormat),
	})
}

// SetSize sets the available size for the overview tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.bar.SetWidth(max(width/3, 20))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.StartBack,
		m.keys.StartForward,
		m.keys.EndForward,
		m.keys.Today,
		m.keys.NextDate,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.StartBack, m.keys.StartForward},
		{m.keys.EndBack, m.keys.EndForward},
		{m.keys.NextDate, m.keys.PrevDate},
		{m.keys.Today, m.keys.Up, m.keys.Down},
	}
}
