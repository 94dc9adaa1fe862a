package www

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/angas/omie-prices/www/chartjs"
)

func NewChartHandler(logger *slog.Logger, analyze Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report, err := analyze()
		if err != nil {
			logger.Warn("handling chart request", slog.Any("error", err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		cs := report.ChartSeries()
		chart := chartjs.NewPriceChart("Average Costs and Standard Deviations by Hour", cs)
		yAxis := chart.Options.Scales["y"].WithTitle("Average Cost (EUR/MWh)")
		if len(cs.Means) > 0 && slices.Min(cs.Means) >= 0 {
			yAxis = yAxis.WithMinAndMax(0, cs.Top())
		}
		chart.Options.Scales["y"] = yAxis

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(chart); err != nil {
			logger.Error("handling chart request", slog.Any("error", err))
			http.Error(w, "unable to encode chart", http.StatusInternalServerError)
			return
		}
	}
}
