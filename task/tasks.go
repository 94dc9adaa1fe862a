package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angas/omie-prices/config"
	"github.com/angas/omie-prices/database"
	"github.com/angas/omie-prices/types"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	PriceFileTask   func()
	MaintenanceTask func() // nil without an archive
}

// NewTasks builds the daemon jobs, db may be nil when no archive is configured.
func NewTasks(db *database.Database, provider types.PriceFileProvider, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	t := &Tasks{
		cron:          cron.New(),
		cnfg:          cnfg,
		PriceFileTask: NewPriceFileTask(logger.With(slog.String("task", "price_file")), db, provider, cnfg.Analyze.HourBase),
	}
	if db != nil {
		t.MaintenanceTask = NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg)
	}
	return t
}

func (t *Tasks) Run() error {
	if _, err := t.cron.AddFunc(t.cnfg.Omie.RunAt, t.PriceFileTask); err != nil {
		return fmt.Errorf("schedule price file task %q: %w", t.cnfg.Omie.RunAt, err)
	}
	if t.MaintenanceTask != nil {
		if _, err := t.cron.AddFunc("30 2 * * *", t.MaintenanceTask); err != nil {
			return fmt.Errorf("schedule maintenance task: %w", err)
		}
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Entries() int {
	return len(t.cron.Entries())
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
