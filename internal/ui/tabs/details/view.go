package details

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/n-forsell/apicov-dashboard-tui/internal/dataview"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/components"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/styles"
)

// Column widths for the detail table. Name takes the remaining width.
const (
	coverageColWidth = 18
	usageColWidth    = 10
	clientsColWidth  = 9
)

// View renders the details tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	res := m.compute()

	sections := []string{
		m.renderHeader(res),
		m.renderSearchLine(),
	}

	if err := m.state.GetFetchError(); err != nil {
		sections = append(sections, m.renderError(err))
	}

	sections = append(sections,
		m.renderTable(res),
		m.renderFooter(res),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(res dataview.Result) string {
	title := styles.TitleStyle.Render("API Details")

	parts := []string{
		m.state.SelectedDate(),
		fmt.Sprintf("%d of %d APIs", len(res.Filtered), len(m.state.GetRecords())),
		fmt.Sprintf("coverage %d-%d%%", m.filters.Coverage[0], m.filters.Coverage[1]),
		fmt.Sprintf("usage: %s", m.filters.Usage),
		fmt.Sprintf("sort: %s desc", m.sortKey),
	}
	subtitle := styles.HelpStyle.Render(joinDotted(parts))

	if m.state.IsRecordsStale() {
		subtitle = lipgloss.JoinHorizontal(lipgloss.Left,
			subtitle, "  ", styles.StaleStyle.Render("cached data"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSearchLine() string {
	label := styles.BlurredStyle.Render("  Search:")
	inputStyle := styles.BlurredBorderStyle
	if m.searching {
		label = styles.FocusedStyle.Render("> Search:")
		inputStyle = styles.FocusedBorderStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		label, " ", inputStyle.Render(m.searchInput.View()))
}

func (m *Model) renderError(err error) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		fmt.Sprintf("%s %v", styles.ErrorTextStyle.Render("Fetch failed:"), err),
		styles.HelpStyle.Render("Showing the last loaded records. Press r to retry."),
	)
}

func (m *Model) renderTable(res dataview.Result) string {
	cardWidth := max(m.width-6, 60)

	if len(res.PageItems) == 0 {
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Center,
				"",
				styles.SubTitleStyle.Render("○ No Matching APIs"),
				styles.HelpStyle.Render("Adjust the filters or press 'x' to clear them."),
				"",
			),
		)
	}

	nameWidth := max(cardWidth-coverageColWidth-usageColWidth-clientsColWidth-8, 20)

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		styles.TableHeaderStyle.Width(nameWidth).Render("API"),
		styles.TableHeaderStyle.Width(coverageColWidth).Render("Coverage"),
		styles.TableHeaderStyle.Width(usageColWidth).Align(lipgloss.Right).Render("Calls"),
		styles.TableHeaderStyle.Width(clientsColWidth).Align(lipgloss.Right).Render("Clients"),
	)

	win := m.window(len(res.PageItems))

	rows := []string{header}
	for _, idx := range win.Indices {
		rows = append(rows, m.renderRow(res.PageItems[idx], nameWidth))
	}

	if hidden := len(res.PageItems) - len(win.Indices); hidden > 0 {
		rows = append(rows, styles.HelpStyle.Render(
			fmt.Sprintf("  … %d more rows, scroll with ↑/↓", hidden)))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRow(r models.APIRecord, nameWidth int) string {
	// Truncate by display width, not bytes, so wide and multi-byte names
	// never get split mid-rune.
	name := ansi.Truncate(r.Name, nameWidth-2, "...")

	nameStyle := styles.TableCellStyle
	if !r.Used() {
		nameStyle = styles.UnusedStyle
	}

	cov := r.Coverage.Value()
	coverageCell := lipgloss.JoinHorizontal(lipgloss.Left,
		components.RenderGradientBar(cov, coverageColWidth-8),
		" ",
		styles.GetCoverageStyle(cov).Render(fmt.Sprintf("%5.1f%%", cov)),
	)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		nameStyle.Width(nameWidth).Render(name),
		lipgloss.NewStyle().Width(coverageColWidth).Render(coverageCell),
		styles.TableCellStyle.Width(usageColWidth).Align(lipgloss.Right).Render(fmt.Sprintf("%d", r.Usage)),
		styles.TableCellStyle.Width(clientsColWidth).Align(lipgloss.Right).Render(fmt.Sprintf("%d", r.TotalClients)),
	)
}

func (m *Model) renderFooter(res dataview.Result) string {
	pageInfo := fmt.Sprintf("Page %d/%d", res.Page, res.TotalPages)
	if len(res.Filtered) > dataview.PageSize {
		pageInfo += fmt.Sprintf(" (%d per page)", dataview.PageSize)
	}

	shortcuts := []string{
		styles.HelpKeyStyle.Render("/") + " search",
		styles.HelpKeyStyle.Render(",/.") + " min",
		styles.HelpKeyStyle.Render("</>") + " max",
		styles.HelpKeyStyle.Render("u") + " " + string(m.filters.Usage.Next()),
		styles.HelpKeyStyle.Render("s") + " sort",
		styles.HelpKeyStyle.Render("←/→") + " page",
		styles.HelpKeyStyle.Render("x") + " clear",
	}

	footer := pageInfo
	for _, s := range shortcuts {
		footer += styles.HelpSeparatorStyle.Render(" | ") + s
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}

func joinDotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " · "
		}
		out += p
	}
	return out
}
