package www

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/angas/omie-prices/pricestats"
)

// Analyzer produces a fresh report, the price files may change between requests.
type Analyzer func() (*pricestats.Report, error)

type reportTemplData struct {
	Report   *pricestats.Report
	Cheapest []pricestats.HourlyStatistic
	Error    string
}

func statusFor(err error) int {
	if errors.Is(err, pricestats.ErrNoInputFiles) || errors.Is(err, pricestats.ErrEmptyDataset) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func NewReportHandler(logger *slog.Logger, analyze Analyzer, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := http.StatusOK
		var data reportTemplData
		report, err := analyze()
		if err != nil {
			logger.Warn("handling report request", slog.Any("error", err))
			status = statusFor(err)
			data.Error = err.Error()
		} else {
			data.Report = report
			data.Cheapest = report.ByMean()[:min(3, len(report.Hours))]
		}

		buf, err := tm.Execute("report.html", data)
		if err != nil {
			logger.Error("handling report request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}
