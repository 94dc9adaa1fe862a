// Command archive_files stores already retrieved price files in the archive.
//
//	go run ./cmd/archive_files -config config/config.yaml marginalpdbcpt_2024*.1
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/angas/omie-prices/config"
	"github.com/angas/omie-prices/database"
	"github.com/angas/omie-prices/task"
	"github.com/lmittmann/tint"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}))
	slog.SetDefault(logger)

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if !cnfg.Database.Enabled() {
		logger.Error("no database path configured")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	total := 0
	for _, pattern := range flag.Args() {
		files, err := filepath.Glob(pattern)
		if err != nil {
			panic(err)
		}
		for _, file := range files {
			n, err := task.ArchivePriceFile(ctx, logger, db, file, cnfg.Analyze.HourBase)
			if err != nil {
				logger.Warn("price file not archived", slog.String("file", file), slog.Any("error", err))
				continue
			}
			total += n
		}
	}
	logger.Info("archive updated", slog.Int("noOfHours", total))
}
