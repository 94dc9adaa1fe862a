package days

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "20060102"
)

var marketLoc *time.Location

func init() {
	var err error
	marketLoc, err = time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic(fmt.Sprintf("failed to load Madrid location: %v", err))
	}
}

// Date is a calendar day, always held at midnight UTC.
type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Parse(str string) (Date, error) {
	t, err := time.Parse(dateLayout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", str, err)
	}
	return Date{t: t}, nil
}

// FromTime returns the day t falls on in the market timezone.
func FromTime(t time.Time) Date {
	t = t.In(marketLoc)
	return New(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return FromTime(time.Now())
}

func Tomorrow(now time.Time) Date {
	return FromTime(now).Add(1)
}

func (d Date) Add(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

func (d Date) Year() int {
	return d.t.Year()
}

func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// Stamp is the compact form used in file names, e.g. 20240115.
func (d Date) Stamp() string {
	return d.t.Format(stampLayout)
}

func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Range is an inclusive span of days.
type Range struct {
	From Date
	To   Date
}

// YearToDate spans January 1st of the current year up to and including tomorrow.
func YearToDate(now time.Time) Range {
	tomorrow := Tomorrow(now)
	return Range{
		From: New(FromTime(now).Year(), time.January, 1),
		To:   tomorrow,
	}
}

func (r Range) Len() int {
	if r.To.Compare(r.From) < 0 {
		return 0
	}
	return int(r.To.t.Sub(r.From.t).Hours()/24) + 1
}

// Each calls fn for every day in the range, stopping early if fn returns false.
func (r Range) Each(fn func(Date) bool) {
	for d := r.From; d.Compare(r.To) <= 0; d = d.Add(1) {
		if !fn(d) {
			return
		}
	}
}
