package www

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/omie-prices/config"
	"github.com/angas/omie-prices/database"
)

type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	mux    *http.ServeMux
	tm     *TemplateManager
}

// NewServer wires the report pages. The log page is only served when db
// is not nil.
func NewServer(logger *slog.Logger, cnfg config.AppConfigApi, db *database.Database, analyze Analyzer, sysInfo SysInfo) (*Server, error) {
	logger = logger.With("module", "www")
	tm, err := NewTemplateManager(logger, cnfg.WwwDir)
	if err != nil {
		return nil, fmt.Errorf("template manager initialization error: %w", err)
	}

	s := &Server{
		logger: logger,
		config: cnfg,
		mux:    http.NewServeMux(),
		tm:     tm,
	}

	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	s.mux.Handle("/{$}", logReqMW(NewReportHandler(
		logger.With(slog.String("handler", "report")),
		analyze,
		s.tm)))

	s.mux.Handle("/chart", logReqMW(NewChartHandler(
		logger.With(slog.String("handler", "chart")),
		analyze)))

	s.mux.Handle("/sys_info", logReqMW(NewSysInfoHandler(
		logger.With(slog.String("handler", "sys_info")),
		s.tm,
		sysInfo)))

	if db != nil {
		s.mux.Handle("/log", logReqMW(NewLogHandler(
			logger.With(slog.String("handler", "log")),
			db,
			s.tm)))
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is done and then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.tm.Close()

	s.logger.Info("starting server...", "port", s.config.Port)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}
