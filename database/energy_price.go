package database

import (
	"context"
	"fmt"

	"github.com/angas/omie-prices/convert"
	"github.com/angas/omie-prices/days"
)

type EnergyPriceRow struct {
	Date   string // YYYY-MM-DD
	Hour   int
	Price  float64 // EUR/MWh
	Source string  // Name of the file the price was read from
}

// SaveEnergyPrices upserts rows in a single transaction.
func (d *Database) SaveEnergyPrices(ctx context.Context, rows []EnergyPriceRow) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving energy prices, begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO energy_price (date, hour, price, source) VALUES (?, ?, ?, ?)
		ON CONFLICT(date, hour) DO UPDATE SET price = excluded.price, source = excluded.source`)
	if err != nil {
		return fmt.Errorf("saving energy prices, prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Date, row.Hour, convert.RoundFloat64(row.Price, 4), row.Source); err != nil {
			return fmt.Errorf("saving energy price %s %02d: %w", row.Date, row.Hour, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving energy prices, commit: %w", err)
	}
	return nil
}

// GetEnergyPrices returns the archived prices of the inclusive range, by date and hour.
func (d *Database) GetEnergyPrices(ctx context.Context, r days.Range) ([]EnergyPriceRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT date, hour, price, source
		FROM energy_price
		WHERE date >= ? AND date <= ?
		ORDER BY date, hour ASC`,
		r.From.String(), r.To.String())
	if err != nil {
		return nil, fmt.Errorf("fetching energy prices: %w", err)
	}
	defer rows.Close()

	var prices []EnergyPriceRow
	for rows.Next() {
		var ep EnergyPriceRow
		if err := rows.Scan(&ep.Date, &ep.Hour, &ep.Price, &ep.Source); err != nil {
			return nil, fmt.Errorf("scanning energy price row: %w", err)
		}
		prices = append(prices, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading energy price rows: %w", err)
	}

	return prices, nil
}

func (d *Database) PurgeEnergyPrice(ctx context.Context, retentionDays int) error {
	return d.purgeTable(ctx, "energy_price", retentionDays)
}
