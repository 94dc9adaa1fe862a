package www

import (
	"log/slog"
	"net/http"
)

type SysInfo struct {
	Version string
	Dir     string
	Pattern string
	Archive bool
}

func NewSysInfoHandler(logger *slog.Logger, tm *TemplateManager, sysInfo SysInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buf, err := tm.Execute("sys_info.html", sysInfo)
		if err != nil {
			logger.Error("handling sys_info request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
