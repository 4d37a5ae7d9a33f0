package trends

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/components"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/styles"
)

// maxBarDays caps the per-day bar breakdown; longer ranges read better on
// the line chart alone.
const maxBarDays = 12

// View renders the trends tab.
func (m *Model) View() string {
	points := m.state.GetTrends()
	if len(points) == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(points),
		m.renderTrendChart(points),
	}
	if len(points) <= maxBarDays {
		sections = append(sections, m.renderDailyBars(points))
	}
	sections = append(sections, m.renderSparklineCard(points))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Coverage Trends"),
		"",
		styles.HelpStyle.Render("No trend data for the selected range."),
		styles.HelpStyle.Render("Widen the range on the Overview tab to see daily averages."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(points []models.TrendPoint) string {
	title := styles.TitleStyle.Render("Coverage Trends")

	first := points[0].Date
	last := points[len(points)-1].Date
	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("Data: %s → %s (%d days)", first, last, len(points)))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTrendChart(points []models.TrendPoint) string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("◈ Average Coverage per Day"), "")

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.AvgCoverage
	}

	chartWidth := max(cardWidth-12, 30)
	chartHeight := max(min(m.height-14, 12), 6)

	chart := components.RenderLineChart(values, chartWidth, chartHeight, "Average coverage (%)")
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	best, worst := extremes(points)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  Best: %s  Worst: %s",
		styles.CoverageHighStyle.Render(fmt.Sprintf("%s (%.1f%%)", best.Date, best.AvgCoverage)),
		styles.CoverageLowStyle.Render(fmt.Sprintf("%s (%.1f%%)", worst.Date, worst.AvgCoverage)),
	))
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDailyBars(points []models.TrendPoint) string {
	cardWidth := max(m.width-6, 40)

	values := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		values[i] = p.AvgCoverage
		labels[i] = p.Date
	}

	rows := []string{
		styles.CardTitleStyle.Render("◈ Daily Breakdown"),
		"",
	}
	chart := components.RenderBarChart(values, labels, max(cardWidth-8, 30))
	for _, line := range strings.Split(chart, "\n") {
		rows = append(rows, "  "+line)
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSparklineCard(points []models.TrendPoint) string {
	cardWidth := max(m.width-6, 40)

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.AvgCoverage
	}

	rows := []string{
		styles.CardTitleStyle.Render("◈ At a Glance"),
		"",
		"  " + components.RenderCoverageSparkline(values, max(cardWidth-8, 20)),
		"",
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// extremes returns the best and worst days. On ties the earlier day wins.
func extremes(points []models.TrendPoint) (best, worst models.TrendPoint) {
	best, worst = points[0], points[0]
	for _, p := range points[1:] {
		if p.AvgCoverage > best.AvgCoverage {
			best = p
		}
		if p.AvgCoverage < worst.AvgCoverage {
			worst = p
		}
	}
	return best, worst
}
