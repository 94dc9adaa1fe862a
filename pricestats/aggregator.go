package pricestats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/shopspring/decimal"
)

const DefaultPattern = "*.csv"

type Options struct {
	Dir      string // Directory holding the price files, default "."
	Pattern  string // Glob matched against file names in Dir, default "*.csv"
	HourBase int    // Value of the first hour in the files, 0 or 1
}

func (o Options) GetDir() string {
	if o.Dir == "" {
		return "."
	}
	return o.Dir
}

func (o Options) GetPattern() string {
	if o.Pattern == "" {
		return DefaultPattern
	}
	return o.Pattern
}

type DiscardReason string

const (
	DiscardMalformed DiscardReason = "malformed"
	DiscardInvalid   DiscardReason = "invalid"
)

// Aggregator folds price rows into hourly buckets. The fold does not
// depend on the order files or rows are added in.
type Aggregator struct {
	hourBase  int
	buckets   map[int][]decimal.Decimal
	accepted  int
	files     int
	discarded map[DiscardReason]int
}

func NewAggregator(hourBase int) *Aggregator {
	return &Aggregator{
		hourBase:  hourBase,
		buckets:   make(map[int][]decimal.Decimal),
		discarded: make(map[DiscardReason]int),
	}
}

func (a *Aggregator) AddRecord(rec PriceRecord) {
	a.buckets[rec.Hour] = append(a.buckets[rec.Hour], rec.Price)
	a.accepted++
}

// Add reads ';' delimited rows from r. Rows that can't be used are counted
// and skipped, only read errors are returned.
func (a *Aggregator) Add(r io.Reader) error {
	return ReadRecords(r, a.hourBase, func(rec PriceRecord) {
		a.AddRecord(rec)
	}, func(reason DiscardReason) {
		a.discarded[reason]++
	})
}

func (a *Aggregator) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	if err := a.Add(f); err != nil {
		return fmt.Errorf("read price file %s: %w", path, err)
	}
	a.files++
	return nil
}

func (a *Aggregator) Accepted() int {
	return a.accepted
}

func (a *Aggregator) Discarded() map[DiscardReason]int {
	res := make(map[DiscardReason]int, len(a.discarded))
	for k, v := range a.discarded {
		res[k] = v
	}
	return res
}

// Report computes the hourly statistics of everything added so far.
func (a *Aggregator) Report() (*Report, error) {
	if a.accepted == 0 {
		return nil, ErrEmptyDataset
	}

	hours := make([]int, 0, len(a.buckets))
	for h := range a.buckets {
		hours = append(hours, h)
	}
	slices.Sort(hours)

	total := decimal.Zero
	stats := make([]HourlyStatistic, 0, len(hours))
	for _, h := range hours {
		prices := a.buckets[h]
		mean, stdDev := meanStdDev(prices)
		stats = append(stats, HourlyStatistic{
			Hour:   h,
			Mean:   mean,
			StdDev: stdDev,
			Count:  len(prices),
		})
		total = total.Add(decimal.Sum(decimal.Zero, prices...))
	}

	return &Report{
		Hours:       stats,
		OverallMean: total.Div(decimal.NewFromInt(int64(a.accepted))).InexactFloat64(),
		Rows:        a.accepted,
		Files:       a.files,
		Discarded:   a.Discarded(),
	}, nil
}

// meanStdDev returns the mean and the sample standard deviation (n-1).
// A single observation has a standard deviation of 0.
func meanStdDev(prices []decimal.Decimal) (float64, float64) {
	n := decimal.NewFromInt(int64(len(prices)))
	mean := decimal.Sum(decimal.Zero, prices...).Div(n)
	if len(prices) < 2 {
		return mean.InexactFloat64(), 0
	}

	sq := decimal.Zero
	for _, p := range prices {
		d := p.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.Div(n.Sub(decimal.NewFromInt(1)))
	return mean.InexactFloat64(), math.Sqrt(variance.InexactFloat64())
}

// ReadRecords calls accept for every usable row in r and discard for every
// row that was skipped.
func ReadRecords(r io.Reader, hourBase int, accept func(PriceRecord), discard func(DiscardReason)) error {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				discard(DiscardMalformed)
				continue
			}
			return err
		}

		rec, err := ParseRecord(fields, hourBase)
		switch {
		case errors.Is(err, ErrMalformedRow):
			discard(DiscardMalformed)
		case err != nil:
			discard(DiscardInvalid)
		default:
			accept(rec)
		}
	}
}

// SelectFiles returns the files in opts.Dir matching opts.Pattern.
func SelectFiles(opts Options) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(opts.GetDir(), opts.GetPattern()))
	if err != nil {
		return nil, fmt.Errorf("bad file pattern %q: %w", opts.GetPattern(), err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %s in path %s", ErrNoInputFiles, opts.GetPattern(), opts.GetDir())
	}
	slices.Sort(files)
	return files, nil
}

// Analyze aggregates every file selected by opts into one report.
func Analyze(logger *slog.Logger, opts Options) (*Report, error) {
	files, err := SelectFiles(opts)
	if err != nil {
		return nil, err
	}

	agg := NewAggregator(opts.HourBase)
	for _, file := range files {
		logger.Debug("reading price file", slog.String("file", file))
		if err := agg.AddFile(file); err != nil {
			return nil, err
		}
	}

	discarded := agg.Discarded()
	if n := discarded[DiscardMalformed] + discarded[DiscardInvalid]; n > 0 {
		logger.Warn("skipped rows in price files",
			slog.Int("malformed", discarded[DiscardMalformed]),
			slog.Int("invalid", discarded[DiscardInvalid]),
			slog.Int("accepted", agg.Accepted()))
	}

	report, err := agg.Report()
	if err != nil {
		return nil, fmt.Errorf("%w (%d files)", err, len(files))
	}

	logger.Info("price files analyzed",
		slog.Int("files", report.Files),
		slog.Int("rows", report.Rows))

	return report, nil
}
