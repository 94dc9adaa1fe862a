package types

import (
	"context"

	"github.com/angas/omie-prices/days"
)

// PriceFileProvider retrieves the marginal price file of one day and
// returns the path it was saved to.
type PriceFileProvider interface {
	FetchDay(ctx context.Context, day days.Date) (string, error)
}
