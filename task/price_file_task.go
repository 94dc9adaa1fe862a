package task

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/angas/omie-prices/database"
	"github.com/angas/omie-prices/days"
	"github.com/angas/omie-prices/pricestats"
	"github.com/angas/omie-prices/types"
)

// NewPriceFileTask returns a job retrieving tomorrow's price file. When an
// archive is given the file is also stored there, and the job runs at once
// if tomorrow is missing from the archive.
func NewPriceFileTask(logger *slog.Logger, db *database.Database, provider types.PriceFileProvider, hourBase int) func() {
	if provider == nil {
		panic("no price file provider")
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if needImmediatePriceFileUpdate(ctx, db) {
			logger.Info("need an immediate retrieval of tomorrow's price file")
			runPriceFileTask(logger, db, provider, hourBase)
		} else {
			logger.Debug("no need for immediate retrieval of tomorrow's price file")
		}
	}

	return func() { runPriceFileTask(logger, db, provider, hourBase) }
}

func runPriceFileTask(logger *slog.Logger, db *database.Database, provider types.PriceFileProvider, hourBase int) {
	logger.Debug("running price file task...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tomorrow := days.Tomorrow(time.Now())
	path, err := provider.FetchDay(ctx, tomorrow)
	if err != nil {
		logger.Warn("price file task error, retrieving price file", slog.String("day", tomorrow.String()), slog.Any("error", err))
		return
	}

	if db == nil {
		logger.Info("price file task done", slog.String("file", path))
		return
	}

	n, err := ArchivePriceFile(ctx, logger, db, path, hourBase)
	if err != nil {
		logger.Error("price file task error, archiving prices", slog.Any("error", err))
		return
	}

	logger.Info("price file task done", slog.String("file", path), slog.Int("noOfHoursUpdated", n))
}

// ArchivePriceFile stores the usable rows of a price file in the archive
// and returns how many were stored.
func ArchivePriceFile(ctx context.Context, logger *slog.Logger, db *database.Database, path string, hourBase int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	source := filepath.Base(path)
	var rows []database.EnergyPriceRow
	discarded := 0
	err = pricestats.ReadRecords(f, hourBase, func(rec pricestats.PriceRecord) {
		if !rec.HasDate() {
			discarded++
			return
		}
		rows = append(rows, database.EnergyPriceRow{
			Date:   rec.Date(),
			Hour:   rec.Hour,
			Price:  rec.Price.InexactFloat64(),
			Source: source,
		})
	}, func(pricestats.DiscardReason) {
		discarded++
	})
	if err != nil {
		return 0, fmt.Errorf("read price file %s: %w", path, err)
	}
	if discarded > 0 {
		logger.Debug("skipped rows while archiving", slog.String("file", source), slog.Int("rows", discarded))
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("archive %s: %w", source, pricestats.ErrEmptyDataset)
	}

	if err := db.SaveEnergyPrices(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func needImmediatePriceFileUpdate(ctx context.Context, db *database.Database) bool {
	tomorrow := days.Tomorrow(time.Now())
	rows, err := db.GetEnergyPrices(ctx, days.Range{From: tomorrow, To: tomorrow})
	return err != nil || len(rows) == 0
}
