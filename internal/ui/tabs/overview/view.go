package overview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/components"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummaryCards(),
		m.renderScatterCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderHeader renders the title line with the active date range.
func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("API Coverage Overview")

	r := m.state.GetRange()
	days := len(daterange.Enumerate(r))

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeText := fmt.Sprintf("%s → %s", r.Start, r.End)
	if days == 1 {
		rangeText = r.Start
	}
	rangeIndicator := rangeStyle.Render(rangeText)

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("%d day(s) selected. [ ] move start, { } move end, t resets to today.", days))
	if m.state.IsSummaryStale() {
		subtitle = lipgloss.JoinHorizontal(lipgloss.Left,
			subtitle, "  ", styles.StaleStyle.Render("cached data"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

// renderSummaryCards renders the three aggregate metric cards.
func (m *Model) renderSummaryCards() string {
	summary := m.state.GetSummary()

	cardWidth := max((m.width-12)/3, 22)

	if summary == nil {
		empty := styles.CardStyle.Width(cardWidth * 3).Render(
			lipgloss.JoinVertical(lipgloss.Center,
				"",
				styles.SubTitleStyle.Render("○ No Summary Yet"),
				styles.HelpStyle.Render("Waiting for the coverage service."),
				"",
			),
		)
		return empty
	}

	apisCard := m.renderMetricCard(cardWidth, "◈ Tracked APIs",
		fmt.Sprintf("%d", summary.TotalAPIs), "")

	coverageCard := m.renderMetricCard(cardWidth, "◈ Avg Coverage",
		styles.GetCoverageStyle(summary.AvgCoverage).Render(fmt.Sprintf("%.1f%%", summary.AvgCoverage)),
		m.bar.ViewCompact(summary.AvgCoverage, cardWidth-6))

	callsCard := m.renderMetricCard(cardWidth, "◈ Total Calls",
		formatCalls(summary.TotalCalls), "")

	return lipgloss.JoinHorizontal(lipgloss.Top, apisCard, " ", coverageCard, " ", callsCard)
}

func (m *Model) renderMetricCard(width int, title, value, extra string) string {
	rows := []string{
		styles.CardTitleStyle.Render(title),
		"",
		lipgloss.NewStyle().Bold(true).Render(value),
	}
	if extra != "" {
		rows = append(rows, extra)
	}
	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderScatterCard renders the coverage-vs-usage scatter plot.
func (m *Model) renderScatterCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	title := fmt.Sprintf("◈ Coverage vs Usage (%s)", m.state.SelectedDate())
	rows = append(rows, styles.CardTitleStyle.Render(title), "")
	rows = append(rows, styles.HelpStyle.Render("  d/D cycles the plotted date"), "")

	points := m.state.GetScatter()
	if len(points) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No data available"))
	} else {
		chartWidth := max(cardWidth-10, 30)
		chartHeight := max(min(m.height-16, 16), 8)
		rows = append(rows, components.RenderScatter(points, chartWidth, chartHeight))
		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderLegend([]components.LegendItem{
			{Label: ">= 80% covered", Color: styles.Success},
			{Label: "50-79%", Color: styles.Warning},
			{Label: "< 50%", Color: styles.Error},
		}))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func formatCalls(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
