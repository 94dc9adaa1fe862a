package database

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/angas/omie-prices/days"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "omie.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestMigrate(t *testing.T) {
	db := newTestDatabase(t)
	v, err := db.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Running the migrations again is a no-op
	require.NoError(t, db.migrate(context.Background()))
}

func TestEnergyPrices(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	require.NoError(t, db.SaveEnergyPrices(ctx, []EnergyPriceRow{
		{Date: "2024-01-15", Hour: 0, Price: 45.5, Source: "a"},
		{Date: "2024-01-15", Hour: 1, Price: 40.123456, Source: "a"},
		{Date: "2024-01-16", Hour: 0, Price: 50, Source: "b"},
	}))
	// Upsert replaces the price of an existing hour
	require.NoError(t, db.SaveEnergyPrices(ctx, []EnergyPriceRow{
		{Date: "2024-01-15", Hour: 0, Price: 47, Source: "c"},
	}))

	rows, err := db.GetEnergyPrices(ctx, days.Range{
		From: days.New(2024, time.January, 15),
		To:   days.New(2024, time.January, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, []EnergyPriceRow{
		{Date: "2024-01-15", Hour: 0, Price: 47, Source: "c"},
		{Date: "2024-01-15", Hour: 1, Price: 40.1235, Source: "a"},
	}, rows)
}

func TestSaveEnergyPricesRejectsBadHour(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	err := db.SaveEnergyPrices(ctx, []EnergyPriceRow{
		{Date: "2024-01-15", Hour: 1, Price: 1, Source: "a"},
		{Date: "2024-01-15", Hour: 24, Price: 1, Source: "a"},
	})
	assert.Error(t, err)

	// Nothing from the failed batch is kept
	rows, err := db.GetEnergyPrices(ctx, days.Range{
		From: days.New(2024, time.January, 1),
		To:   days.New(2024, time.December, 31),
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPurgeEnergyPrice(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	old := days.Today().Add(-40)
	recent := days.Today().Add(-5)
	require.NoError(t, db.SaveEnergyPrices(ctx, []EnergyPriceRow{
		{Date: old.String(), Hour: 3, Price: 10, Source: "old"},
		{Date: recent.String(), Hour: 3, Price: 20, Source: "recent"},
	}))

	require.NoError(t, db.PurgeEnergyPrice(ctx, 30))

	rows, err := db.GetEnergyPrices(ctx, days.Range{From: old, To: days.Today()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "recent", rows[0].Source)
}

func TestLogEntries(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	for i, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		require.NoError(t, db.SaveLogEntry(ctx, LogEntryRow{
			Timestamp: time.Date(2024, time.January, 15, 10, i, 0, 0, time.UTC),
			Level:     int(lvl),
			Message:   lvl.String(),
		}))
	}

	entries, err := db.GetLogEntries(ctx, LogFilter{MinLevel: slog.LevelWarn}, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ERROR", entries[0].Message)
	assert.Equal(t, "WARN", entries[1].Message)

	require.NoError(t, db.PurgeLog(ctx, 1))
	entries, err = db.GetLogEntries(ctx, LogFilter{MinLevel: slog.LevelDebug}, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0].Message)
}

func TestLogEntriesFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	for i, e := range []LogEntryRow{
		{Level: int(slog.LevelInfo), Message: "price file saved", Attrs: `{"file":"marginalpdbcpt_20240115.1"}`},
		{Level: int(slog.LevelWarn), Message: "price file not retrieved", Attrs: `{"day":"2024-01-16"}`},
		{Level: int(slog.LevelWarn), Message: "skipped rows in price files", Attrs: `{"invalid":2}`},
		{Level: int(slog.LevelInfo), Message: "100% done", Attrs: ""},
	} {
		e.Timestamp = time.Date(2024, time.January, 15, 10, i, 0, 0, time.UTC)
		require.NoError(t, db.SaveLogEntry(ctx, e))
	}

	messages := func(f LogFilter) []string {
		entries, err := db.GetLogEntries(ctx, f, 1, 10)
		require.NoError(t, err)
		var msgs []string
		for _, e := range entries {
			msgs = append(msgs, e.Message)
		}
		return msgs
	}

	assert.Equal(t, []string{"skipped rows in price files", "price file not retrieved"},
		messages(LogFilter{MinLevel: slog.LevelWarn}))
	assert.Equal(t, []string{"price file not retrieved"},
		messages(LogFilter{MinLevel: slog.LevelInfo, Text: "2024-01-16"}), "matches attrs")
	assert.Equal(t, []string{"skipped rows in price files", "price file not retrieved", "price file saved"},
		messages(LogFilter{MinLevel: slog.LevelDebug, Text: "price file"}))
	assert.Equal(t, []string{"100% done"},
		messages(LogFilter{MinLevel: slog.LevelDebug, Text: "100%"}), "percent is literal")
	assert.Empty(t, messages(LogFilter{MinLevel: slog.LevelError, Text: "price"}))
}

func TestBackup(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	zipPath, err := db.Backup(ctx)
	require.NoError(t, err)
	assert.FileExists(t, zipPath)

	entries, err := os.ReadDir(filepath.Dir(zipPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the zip file is left")

	require.NoError(t, db.PurgeBackups(ctx, 1))
	assert.FileExists(t, zipPath)
}
