package www

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/angas/omie-prices/database"
	"github.com/angas/omie-prices/logging"
)

func intOrDefault(r *http.Request, key string, defaultValue int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func NewLogHandler(logger *slog.Logger, db *database.Database, tm *TemplateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		page := intOrDefault(r, "page", 1)
		pageSize := intOrDefault(r, "pageSize", 25)

		level := r.URL.Query().Get("level")
		filter := database.LogFilter{
			MinLevel: slog.LevelDebug,
			Text:     strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if level != "" {
			filter.MinLevel = logging.LevelFromString(&level)
		}

		entries, err := db.GetLogEntries(r.Context(), filter, page, pageSize)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data := struct {
			Page     int
			NextPage int
			PageSize int
			Level    string
			Query    string
			Entries  []database.LogEntryRow
		}{
			Page:     page,
			NextPage: page + 1,
			PageSize: pageSize,
			Level:    filter.MinLevel.String(),
			Query:    filter.Text,
			Entries:  entries,
		}

		buf, err := tm.Execute("log.html", data)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
