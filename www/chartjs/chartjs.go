package chartjs

import (
	"github.com/angas/omie-prices/convert"
	"github.com/angas/omie-prices/pricestats"
)

const (
	TypeBarWithErrorBars = "barWithErrorBars"
	ColorBlue            = "#2196f3b3"
	ColorBlueBorder      = "#1565c0"
)

// NewPriceChart builds a bar chart with error bars from the series, in the
// order of the series. Means and deviations are rounded to two decimals.
func NewPriceChart(title string, cs pricestats.ChartSeries) Chart {
	points := make([]ErrorBarPoint, len(cs.Means))
	colors := make([]string, len(cs.Means))
	for i, mean := range cs.Means {
		points[i] = ErrorBarPoint{
			Y:    convert.TwoDecimals(mean),
			YMin: convert.TwoDecimals(mean - cs.StdDevs[i]),
			YMax: convert.TwoDecimals(mean + cs.StdDevs[i]),
		}
		colors[i] = ColorBlue
	}

	chart := Chart{
		Type: TypeBarWithErrorBars,
		Data: ChartData{
			Labels: cs.Labels,
			Datasets: []ChartDataset{
				{
					Label:           "Average Cost",
					Data:            points,
					BorderWidth:     1,
					BorderColor:     ColorBlueBorder,
					BackgroundColor: colors,
					YAxisID:         "y",
				},
			},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: false},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"x": {
					Type:    "category",
					Display: true,
					Title:   ChartScaleTitle{Display: true, Text: "Hour"},
					Ticks:   &ChartTicks{MaxRotation: 45, MinRotation: 45},
				},
				"y": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true, Text: "Average Cost"},
				},
			},
		},
	}

	if title != "" {
		chart.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return chart
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}
