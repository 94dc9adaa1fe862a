// Package chart renders price statistics for the terminal.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/angas/omie-prices/pricestats"
	"github.com/angas/omie-prices/slice"
)

var (
	Cheap     = lipgloss.Color("42")  // Green
	Moderate  = lipgloss.Color("220") // Yellow
	Expensive = lipgloss.Color("196") // Red
	Subtle    = lipgloss.Color("240") // Gray

	TitleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	HelpStyle    = lipgloss.NewStyle().Foreground(Subtle)
	WhiskerStyle = lipgloss.NewStyle().Foreground(Subtle)
)

const (
	Title      = "Average Costs and Standard Deviations by Hour"
	valueWidth = 18
	minBar     = 10
)

// RenderBars draws one horizontal bar per hour in the order of the series,
// the cheapest hour first when the series comes from Report.ChartSeries.
// The whisker after a bar reaches mean + standard deviation.
func RenderBars(cs pricestats.ChartSeries, width int) string {
	if len(cs.Means) == 0 {
		return HelpStyle.Render("No data available")
	}

	maxVal := cs.Top()
	if maxVal <= 0 {
		maxVal = 1
	}

	labelWidth := int(slice.MaxOf(cs.Labels, 0, func(l string) float64 { return float64(len(l)) }))

	barWidth := max(width-labelWidth-2-valueWidth, minBar)
	scale := func(v float64) int {
		n := int(math.Round(v / maxVal * float64(barWidth)))
		return min(max(n, 0), barWidth)
	}

	lines := make([]string, 0, len(cs.Means)+1)
	lines = append(lines, TitleStyle.Render(Title))
	for i, mean := range cs.Means {
		barLen := scale(mean)
		whiskerEnd := scale(mean + cs.StdDevs[i])

		var b strings.Builder
		b.WriteString(fmt.Sprintf("%*s │", labelWidth, cs.Labels[i]))
		b.WriteString(lipgloss.NewStyle().Foreground(barColor(i, len(cs.Means))).Render(strings.Repeat("█", barLen)))
		if whiskerEnd > barLen {
			b.WriteString(WhiskerStyle.Render(strings.Repeat("─", whiskerEnd-barLen-1) + "┤"))
		}
		b.WriteString(strings.Repeat(" ", barWidth-max(barLen, whiskerEnd)))
		b.WriteString(fmt.Sprintf(" %8.2f ±%.2f", mean, cs.StdDevs[i]))
		lines = append(lines, b.String())
	}

	return strings.Join(lines, "\n")
}

// barColor splits the sorted bars into a cheap, a moderate and an expensive third.
func barColor(pos, n int) lipgloss.Color {
	switch third := pos * 3 / n; third {
	case 0:
		return Cheap
	case 1:
		return Moderate
	default:
		return Expensive
	}
}

// RenderCurve plots the hourly means in hour order.
func RenderCurve(report *pricestats.Report, width, height int) string {
	if report == nil || len(report.Hours) == 0 {
		return HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	means := slice.Map(report.Hours, func(s pricestats.HourlyStatistic) float64 { return s.Mean })
	// asciigraph needs at least two points to draw a line
	if len(means) == 1 {
		means = append(means, means[0])
	}

	first, last := report.Hours[0].Hour, report.Hours[len(report.Hours)-1].Hour
	return asciigraph.Plot(means,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("Average price per hour %02d-%02d, overall %.2f", first, last, report.OverallMean)),
	)
}
