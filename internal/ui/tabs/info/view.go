package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/styles"
	"github.com/n-forsell/apicov-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderCacheCard(),
		m.renderKeysCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderRow("API Base URL", m.config.APIBaseURL))
		rows = append(rows, m.renderRow("Request Timeout", m.config.RequestTimeout.String()))
		rows = append(rows, m.renderRow("Database", m.config.DatabasePath))
		rows = append(rows, m.renderRow("View State", m.config.StatePath))
		if m.config.CoverageAlert > 0 {
			rows = append(rows, m.renderRow("Coverage Alert", fmt.Sprintf("below %.0f%%", m.config.CoverageAlert)))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderCacheCard renders the snapshot cache card.
func (m *Model) renderCacheCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Snapshot Cache"))
	rows = append(rows, "")

	if len(m.cachedDates) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No cached snapshots yet."))
		rows = append(rows, styles.HelpStyle.Render("Loaded dates are kept locally for offline browsing."))
	} else {
		rows = append(rows, m.renderRow("Cached Dates", fmt.Sprintf("%d", len(m.cachedDates))))

		// cachedDates is ascending, so the newest snapshots sit at the tail.
		preview := m.cachedDates
		if len(preview) > 5 {
			preview = preview[len(preview)-5:]
		}
		rows = append(rows, m.renderRow("Most Recent", strings.Join(preview, ", ")))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRow renders a key-value row.
func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderKeysCard renders the global key reference. Per-tab keys live in the
// help overlay.
func (m *Model) renderKeysCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("Keys"),
		"",
		m.renderRow("1-4", "switch tab"),
		m.renderRow("tab / shift+tab", "next / previous tab"),
		m.renderRow("r", "refresh current data"),
		m.renderRow("?", "toggle help (per-tab keys)"),
		m.renderRow("q / ctrl+c", "quit"),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About apicov"))
	rows = append(rows, "")

	rows = append(rows, m.renderRow("Version", version.GetVersion()))
	rows = append(rows, m.renderRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
