package pricestats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	FieldsPerRow = 7
	NoOfHours    = 24

	bom = "\uFEFF"
)

// PriceRecord is one row of a marginal price file,
// e.g. "2024;01;15;10;45.50;45.50;". The two trailing fields are ignored.
type PriceRecord struct {
	Year  int
	Month int
	Day   int
	Hour  int
	Price decimal.Decimal
}

// HasDate reports whether the date columns held a usable date.
func (r PriceRecord) HasDate() bool {
	return r.Year > 0 && r.Month >= 1 && r.Month <= 12 && r.Day >= 1 && r.Day <= 31
}

func (r PriceRecord) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", r.Year, r.Month, r.Day)
}

// ParseRecord turns the fields of one row into a PriceRecord. hourBase is
// subtracted from the hour column, files numbering periods from 1 use 1.
// A wrong field count gives ErrMalformedRow, an hour or price that does not
// parse or an hour outside 0-23 gives ErrInvalidRow. Date columns that do
// not parse are left zero, see HasDate.
func ParseRecord(fields []string, hourBase int) (PriceRecord, error) {
	if len(fields) != FieldsPerRow {
		return PriceRecord{}, fmt.Errorf("%w: %d fields, expected %d", ErrMalformedRow, len(fields), FieldsPerRow)
	}

	date := make([]int, 3)
	for i := range date {
		date[i], _ = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(fields[i], bom)))
	}

	rawHour, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return PriceRecord{}, fmt.Errorf("%w: hour %q", ErrInvalidRow, fields[3])
	}
	hour := rawHour - hourBase
	if hour < 0 || hour >= NoOfHours {
		return PriceRecord{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidRow, rawHour)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(fields[4]))
	if err != nil {
		return PriceRecord{}, fmt.Errorf("%w: price %q", ErrInvalidRow, fields[4])
	}

	return PriceRecord{
		Year:  date[0],
		Month: date[1],
		Day:   date[2],
		Hour:  hour,
		Price: price,
	}, nil
}
