package omie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/angas/omie-prices/days"
)

const (
	DefaultBaseURL = "https://www.omie.es"
	DefaultMarket  = "marginalpdbcpt"
)

var ErrNotAvailable = errors.New("price file not available")

type Omie struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	market  string
	dir     string
}

// New returns a client saving files into dir. Empty baseURL and market
// fall back to the public portal and the Portuguese marginal price files.
func New(logger *slog.Logger, baseURL, market, dir string, timeout time.Duration) *Omie {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if market == "" {
		market = DefaultMarket
	}
	if dir == "" {
		dir = "."
	}
	return &Omie{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		market:  market,
		dir:     dir,
	}
}

// FileName is the name the portal publishes a day under, e.g. marginalpdbcpt_20240115.1
func (o *Omie) FileName(day days.Date) string {
	return fmt.Sprintf("%s_%s.1", o.market, day.Stamp())
}

func (o *Omie) FileURL(day days.Date) string {
	q := url.Values{}
	q.Set("parents[0]", o.market)
	q.Set("filename", o.FileName(day))
	return fmt.Sprintf("%s/pt/file-download?%s", o.baseURL, q.Encode())
}

// FetchDay downloads the file of one day and returns where it was saved.
func (o *Omie) FetchDay(ctx context.Context, day days.Date) (string, error) {
	u := o.FileURL(day)
	o.logger.Info("retrieving price file", slog.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", o.FileName(day), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s, status code %d", ErrNotAvailable, o.FileName(day), resp.StatusCode)
	}

	path := filepath.Join(o.dir, o.FileName(day))
	if err := writeFile(path, resp.Body); err != nil {
		return "", err
	}

	o.logger.Info("saved price file", slog.String("file", path))
	return path, nil
}

// FetchRange downloads every day in r. A failed day is logged as a warning
// and the remaining days are still retrieved.
func (o *Omie) FetchRange(ctx context.Context, r days.Range) []string {
	saved := make([]string, 0, r.Len())
	r.Each(func(day days.Date) bool {
		if ctx.Err() != nil {
			o.logger.Warn("price file retrieval cancelled", slog.String("day", day.String()))
			return false
		}
		path, err := o.FetchDay(ctx, day)
		if err != nil {
			o.logger.Warn("failed to retrieve price file", slog.String("day", day.String()), slog.Any("error", err))
			return true
		}
		saved = append(saved, path)
		return true
	})
	return saved
}

// InitializeHistory retrieves every day from January 1st up to tomorrow.
func (o *Omie) InitializeHistory(ctx context.Context, now time.Time) []string {
	r := days.YearToDate(now)
	o.logger.Info("initializing history, this might take a while...",
		slog.String("from", r.From.String()),
		slog.String("to", r.To.String()),
		slog.Int("days", r.Len()))
	return o.FetchRange(ctx, r)
}

func (o *Omie) GetDay(ctx context.Context, day days.Date) (string, error) {
	o.logger.Info(fmt.Sprintf("the day for %s is %s", day, day.Weekday()))
	return o.FetchDay(ctx, day)
}

func (o *Omie) GetTomorrow(ctx context.Context, now time.Time) (string, error) {
	return o.GetDay(ctx, days.Tomorrow(now))
}

func writeFile(path string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create price file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write price file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close price file: %w", err)
	}
	return nil
}
