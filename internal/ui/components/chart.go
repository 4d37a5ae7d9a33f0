// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
	"github.com/n-forsell/apicov-dashboard-tui/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)

	return graph
}

// RenderScatter plots coverage (y, 0-100) against usage (x) as an ASCII
// grid. Each point is colored by its coverage bucket.
func RenderScatter(points []models.UsagePoint, width, height int) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	if width < 20 {
		width = 20
	}
	if height < 5 {
		height = 5
	}

	maxUsage := 0
	for _, p := range points {
		if p.Usage > maxUsage {
			maxUsage = p.Usage
		}
	}
	if maxUsage == 0 {
		maxUsage = 1
	}

	const yLabelWidth = 5
	plotWidth := width - yLabelWidth - 1
	if plotWidth < 10 {
		plotWidth = 10
	}

	// cell value: -1 empty, otherwise the highest coverage landing there
	grid := make([][]float64, height)
	for i := range grid {
		grid[i] = make([]float64, plotWidth)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}

	for _, p := range points {
		x := int(float64(p.Usage) / float64(maxUsage) * float64(plotWidth-1))
		y := height - 1 - int(p.Coverage.Value()/100*float64(height-1))
		if x < 0 || x >= plotWidth || y < 0 || y >= height {
			continue
		}
		if cov := p.Coverage.Value(); cov > grid[y][x] {
			grid[y][x] = cov
		}
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		// Label the top, middle, and bottom rows of the y axis.
		label := "     "
		switch row {
		case 0:
			label = " 100 "
		case height / 2:
			label = "  50 "
		case height - 1:
			label = "   0 "
		}
		b.WriteString(styles.HelpStyle.Render(label))
		b.WriteString(styles.HelpStyle.Render("│"))

		for col := 0; col < plotWidth; col++ {
			cov := grid[row][col]
			if cov < 0 {
				b.WriteString(" ")
				continue
			}
			b.WriteString(styles.GetCoverageStyle(cov).Render("●"))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", yLabelWidth))
	b.WriteString(styles.HelpStyle.Render("└" + strings.Repeat("─", plotWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", yLabelWidth+1))
	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("0%*d calls", plotWidth-1, maxUsage)))

	return b.String()
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Find max label length
	maxLabelLen := 0
	for _, l := range labels {
		if len(l) > maxLabelLen {
			maxLabelLen = len(l)
		}
	}

	barWidth := width - maxLabelLen - 10 // Leave room for label and value
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		// Pad label
		paddedLabel := fmt.Sprintf("%*s", maxLabelLen, label)

		// Calculate bar length
		barLen := int((v / maxVal) * float64(barWidth))
		if barLen < 0 {
			barLen = 0
		}

		bar := strings.Repeat("█", barLen)
		valueStr := fmt.Sprintf(" %.1f", v)

		line := paddedLabel + " │" + bar + valueStr
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// RenderCoverageSparkline creates a sparkline of coverage percentages,
// coloring each column by its coverage bucket.
func RenderCoverageSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		idx := int(float64(i) * step)
		val := values[idx]
		normalized := int(val / 100 * float64(len(sparkChars)-1))
		if normalized >= len(sparkChars) {
			normalized = len(sparkChars) - 1
		}
		if normalized < 0 {
			normalized = 0
		}

		style := styles.GetCoverageStyle(val)
		result.WriteString(style.Render(string(sparkChars[normalized])))
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
