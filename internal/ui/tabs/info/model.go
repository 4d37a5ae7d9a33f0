// Package info provides the tab showing configuration and cache details.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/n-forsell/apicov-dashboard-tui/internal/app"
	"github.com/n-forsell/apicov-dashboard-tui/internal/config"
	"github.com/n-forsell/apicov-dashboard-tui/internal/services"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	cachedDates []string
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config, svc *services.Manager) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		services: svc,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return m.refreshCacheInfoCmd()
}

// cacheInfoMsg carries the list of locally cached snapshot dates.
type cacheInfoMsg struct {
	dates []string
}

func (m *Model) refreshCacheInfoCmd() tea.Cmd {
	if m.services == nil {
		return nil
	}
	return func() tea.Msg {
		dates, err := m.services.CachedDates()
		if err != nil {
			return cacheInfoMsg{}
		}
		return cacheInfoMsg{dates: dates}
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case cacheInfoMsg:
		m.cachedDates = msg.dates
		return m, nil

	case app.APIListLoadedMsg:
		// A completed fetch may have added a cached snapshot.
		return m, m.refreshCacheInfoCmd()

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Up,
		m.keys.Down,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
	}
}
