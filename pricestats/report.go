package pricestats

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/angas/omie-prices/slice"
)

type HourlyStatistic struct {
	Hour   int
	Mean   float64
	StdDev float64 // Sample standard deviation, 0 for a single observation
	Count  int
}

func (s HourlyStatistic) Label() string {
	return fmt.Sprintf("%02d", s.Hour)
}

type Report struct {
	Hours       []HourlyStatistic // Ascending by hour
	OverallMean float64
	Rows        int
	Files       int
	Discarded   map[DiscardReason]int
}

// ByMean returns the hourly statistics ascending by mean, cheapest hour
// first. Hours with equal means keep their hour order.
func (r *Report) ByMean() []HourlyStatistic {
	sorted := slices.Clone(r.Hours)
	slices.SortStableFunc(sorted, func(a, b HourlyStatistic) int {
		return cmp.Compare(a.Mean, b.Mean)
	})
	return sorted
}

// ChartSeries holds parallel slices for a bar chart with error bars.
type ChartSeries struct {
	Labels  []string
	Means   []float64
	StdDevs []float64
}

// Hour returns the statistic of hour h, false when no row had that hour.
func (r *Report) Hour(h int) (HourlyStatistic, bool) {
	return slice.Find(r.Hours, func(s HourlyStatistic) bool { return s.Hour == h })
}

func (r *Report) ChartSeries() ChartSeries {
	sorted := r.ByMean()
	return ChartSeries{
		Labels:  slice.Map(sorted, HourlyStatistic.Label),
		Means:   slice.Map(sorted, func(s HourlyStatistic) float64 { return s.Mean }),
		StdDevs: slice.Map(sorted, func(s HourlyStatistic) float64 { return s.StdDev }),
	}
}

// Top is the highest mean plus standard deviation, the upper end of a chart axis.
func (cs ChartSeries) Top() float64 {
	top := 0.0
	for i, m := range cs.Means {
		top = max(top, m+cs.StdDevs[i])
	}
	return top
}

func (r *Report) Lines() []string {
	return slice.Map(r.Hours, func(s HourlyStatistic) string {
		return fmt.Sprintf("Hour: %02d, Average Cost: %.2f, Standard Deviation: %.2f", s.Hour, s.Mean, s.StdDev)
	})
}

func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Average Costs and Standard Deviations by Hour:"); err != nil {
		return err
	}
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nOverall Average Price: %.2f\n", r.OverallMean)
	return err
}
