package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/angas/omie-prices/chart"
	"github.com/angas/omie-prices/config"
	"github.com/angas/omie-prices/database"
	"github.com/angas/omie-prices/days"
	"github.com/angas/omie-prices/logging"
	"github.com/angas/omie-prices/omie"
	"github.com/angas/omie-prices/pricestats"
	"github.com/angas/omie-prices/task"
	"github.com/angas/omie-prices/www"
)

var Version = "?.?.?"

type flags struct {
	config            string
	initializeHistory bool
	getDay            string
	getTomorrow       bool
	analyze           bool
	dir               string
	file              string
	graph             bool
	daemon            bool
	serve             bool
}

func (f flags) hasAction() bool {
	return f.initializeHistory || f.getDay != "" || f.getTomorrow || f.analyze || f.daemon || f.serve
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain parses args, runs the requested actions and returns the exit code.
func realMain(args []string, stdout, stderr io.Writer) int {
	var f flags
	fs := flag.NewFlagSet("omie-prices", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "path to config file")
	fs.BoolVar(&f.initializeHistory, "initialize-history", false, "retrieve the OMIE price files for the current year")
	fs.StringVar(&f.getDay, "get-day", "", "retrieve the OMIE price file of a day (YYYY-MM-DD)")
	fs.BoolVar(&f.getTomorrow, "get-tomorrow", false, "retrieve the OMIE price file for tomorrow")
	fs.BoolVar(&f.analyze, "analyze", false, "analyze the price files")
	fs.StringVar(&f.dir, "dir", "", "directory containing the price files, used with --analyze (default \".\")")
	fs.StringVar(&f.file, "file", "", "pattern of the price files, used with --analyze (default \"*.csv\")")
	fs.BoolVar(&f.graph, "graph", false, "display a chart of the analysis, used with --analyze")
	fs.BoolVar(&f.daemon, "daemon", false, "retrieve tomorrow's price file every day")
	fs.BoolVar(&f.serve, "serve", false, "serve the analysis over http")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if !f.hasAction() {
		fs.Usage()
		return 0
	}

	if err := run(f, stdout, stderr); err != nil {
		logExitError(slog.Default(), err)
		return 1
	}
	return 0
}

func run(f flags, stdout, stderr io.Writer) error {
	cnfg, err := config.Load(f.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleHandler := logging.NewConsoleHandler(stderr, cnfg.Logging.GetConsoleLevel())
	logger := slog.New(consoleHandler)
	slog.SetDefault(logger)
	logger.Debug("omie-prices is starting...", slog.String("version", Version))

	var db *database.Database
	if cnfg.Database.Enabled() {
		db, err = database.New(ctx, cnfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		logger = slog.New(logging.NewMultiHandler(
			consoleHandler,
			logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
		slog.SetDefault(logger)

		// From here on the database logs into itself
		db.SetLogger(logger.With("module", "database"))
	}

	provider := omie.New(
		logger.With("module", "omie"),
		cnfg.Omie.BaseURL,
		cnfg.Omie.Market,
		cnfg.Omie.DownloadDir,
		cnfg.Omie.GetTimeout())

	archive := func(paths ...string) {
		if db == nil {
			return
		}
		for _, path := range paths {
			if _, err := task.ArchivePriceFile(ctx, logger, db, path, cnfg.Analyze.HourBase); err != nil {
				logger.Warn("price file not archived", slog.String("file", path), slog.Any("error", err))
			}
		}
	}

	if f.initializeHistory {
		saved := provider.InitializeHistory(ctx, time.Now())
		logger.Info("history initialized", slog.Int("files", len(saved)))
		archive(saved...)
	}

	if f.getDay != "" {
		if day, err := days.Parse(f.getDay); err != nil {
			logger.Error("invalid day, expected YYYY-MM-DD", slog.String("day", f.getDay), slog.Any("error", err))
		} else if path, err := provider.GetDay(ctx, day); err != nil {
			logger.Warn("price file not retrieved", slog.String("day", day.String()), slog.Any("error", err))
		} else {
			archive(path)
		}
	}

	if f.getTomorrow {
		if path, err := provider.GetTomorrow(ctx, time.Now()); err != nil {
			logger.Warn("price file not retrieved", slog.String("day", days.Tomorrow(time.Now()).String()), slog.Any("error", err))
		} else {
			archive(path)
		}
	}

	opts := cnfg.Analyze.Options()
	if f.dir != "" {
		opts.Dir = f.dir
	}
	if f.file != "" {
		opts.Pattern = f.file
	}

	if f.analyze {
		if err := analyze(stdout, logger, opts, cnfg.Chart, f.graph); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	if f.daemon {
		tasks := task.NewTasks(db, provider, cnfg)
		if err := tasks.Run(); err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			<-tasks.Stop().Done()
			logger.Info("tasks stopped")
		}()
	}

	if f.serve {
		server, err := www.NewServer(logger, cnfg.Api, db, func() (*pricestats.Report, error) {
			return pricestats.Analyze(logger.With("module", "pricestats"), opts)
		}, www.SysInfo{
			Version: Version,
			Dir:     opts.GetDir(),
			Pattern: opts.GetPattern(),
			Archive: db != nil,
		})
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(ctx); err != nil {
				errs <- err
				stop()
			}
		}()
	}

	wg.Wait()
	close(errs)
	return errors.Join(collect(errs)...)
}

func analyze(w io.Writer, logger *slog.Logger, opts pricestats.Options, cnfg config.AppConfigChart, graph bool) error {
	report, err := pricestats.Analyze(logger.With("module", "pricestats"), opts)
	if err != nil {
		if errors.Is(err, pricestats.ErrNoInputFiles) {
			fmt.Fprintf(w, "No files found matching the criteria %s in path %s\n", opts.GetPattern(), opts.GetDir())
		}
		return err
	}

	if err := report.WriteText(w); err != nil {
		return err
	}

	if graph {
		fmt.Fprintln(w)
		fmt.Fprintln(w, chart.RenderBars(report.ChartSeries(), cnfg.GetWidth()))
		fmt.Fprintln(w)
		fmt.Fprintln(w, chart.RenderCurve(report, cnfg.GetWidth(), cnfg.GetHeight()))
	}
	return nil
}

func collect(errs <-chan error) []error {
	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return all
}

func logExitError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
}
