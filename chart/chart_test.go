package chart

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angas/omie-prices/pricestats"
)

func testReport() *pricestats.Report {
	return &pricestats.Report{
		Hours: []pricestats.HourlyStatistic{
			{Hour: 0, Mean: 60, StdDev: 5, Count: 2},
			{Hour: 1, Mean: 20, StdDev: 0, Count: 1},
			{Hour: 2, Mean: 40, StdDev: 10, Count: 2},
		},
		OverallMean: 42,
		Rows:        5,
	}
}

func TestRenderBars(t *testing.T) {
	out := ansi.Strip(RenderBars(testReport().ChartSeries(), 60))
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, Title, strings.TrimSpace(lines[0]))

	bars := lines[len(lines)-3:]
	assert.True(t, strings.HasPrefix(bars[0], "01 │"), bars[0])
	assert.True(t, strings.HasPrefix(bars[1], "02 │"), bars[1])
	assert.True(t, strings.HasPrefix(bars[2], "00 │"), bars[2])

	assert.Contains(t, bars[0], "20.00 ±0.00")
	assert.NotContains(t, bars[0], "┤", "no whisker without spread")
	assert.Contains(t, bars[1], "┤")
	assert.Contains(t, bars[2], "60.00 ±5.00")

	// Bars grow with the mean, all rows are equally wide
	assert.Less(t, strings.Count(bars[0], "█"), strings.Count(bars[1], "█"))
	assert.Less(t, strings.Count(bars[1], "█"), strings.Count(bars[2], "█"))
	assert.Equal(t, ansi.StringWidth(bars[0]), ansi.StringWidth(bars[2]))
}

func TestRenderBarsNegativePrice(t *testing.T) {
	cs := pricestats.ChartSeries{
		Labels:  []string{"14", "15"},
		Means:   []float64{-1.5, 3},
		StdDevs: []float64{0.5, 0},
	}
	out := ansi.Strip(RenderBars(cs, 40))
	assert.Contains(t, out, "14 │")
	assert.Contains(t, out, "-1.50 ±0.50")
}

func TestRenderBarsEmpty(t *testing.T) {
	assert.Contains(t, ansi.Strip(RenderBars(pricestats.ChartSeries{}, 80)), "No data available")
}

func TestBarColor(t *testing.T) {
	assert.Equal(t, Cheap, barColor(0, 24))
	assert.Equal(t, Cheap, barColor(7, 24))
	assert.Equal(t, Moderate, barColor(8, 24))
	assert.Equal(t, Expensive, barColor(23, 24))
	assert.Equal(t, Cheap, barColor(0, 1))
}

func TestRenderCurve(t *testing.T) {
	out := RenderCurve(testReport(), 40, 5)
	assert.Contains(t, out, "Average price per hour 00-02, overall 42.00")

	single := &pricestats.Report{Hours: []pricestats.HourlyStatistic{{Hour: 7, Mean: 10, Count: 1}}, OverallMean: 10}
	assert.Contains(t, RenderCurve(single, 40, 5), "07-07")

	assert.Contains(t, RenderCurve(nil, 40, 5), "No data available")
}
