package days

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-01-15")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if s := d.String(); s != "2024-01-15" {
		t.Errorf("String() expected %q, got %q", "2024-01-15", s)
	}
	if s := d.Stamp(); s != "20240115" {
		t.Errorf("Stamp() expected %q, got %q", "20240115", s)
	}
	if wd := d.Weekday(); wd != time.Monday {
		t.Errorf("Weekday() expected Monday, got %s", wd)
	}

	for _, invalid := range []string{"", "2024-1-15", "15/01/2024", "2024-02-30", "tomorrow"} {
		if _, err := Parse(invalid); err == nil {
			t.Errorf("Parse(%q) expected an error", invalid)
		}
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    Date
		add      int
		expected string
	}{
		{name: "within month", input: New(2024, time.January, 15), add: 1, expected: "2024-01-16"},
		{name: "leap day", input: New(2024, time.February, 28), add: 1, expected: "2024-02-29"},
		{name: "crossing year", input: New(2024, time.December, 31), add: 1, expected: "2025-01-01"},
		{name: "backwards", input: New(2025, time.March, 1), add: -1, expected: "2025-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Add(tt.add).String(); got != tt.expected {
				t.Errorf("Add(%d) expected %s, got %s", tt.add, tt.expected, got)
			}
		})
	}
}

func TestFromTimeUsesMarketTimezone(t *testing.T) {
	// 23:30 UTC in summer is already the next day in Madrid (UTC+2).
	tm := time.Date(2024, time.July, 1, 23, 30, 0, 0, time.UTC)
	if got := FromTime(tm).String(); got != "2024-07-02" {
		t.Errorf("FromTime() expected 2024-07-02, got %s", got)
	}
	if got := Tomorrow(tm).String(); got != "2024-07-03" {
		t.Errorf("Tomorrow() expected 2024-07-03, got %s", got)
	}
}

func TestYearToDate(t *testing.T) {
	now := time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC)
	r := YearToDate(now)
	if r.From.String() != "2024-01-01" {
		t.Errorf("YearToDate() expected from 2024-01-01, got %s", r.From)
	}
	if r.To.String() != "2024-01-04" {
		t.Errorf("YearToDate() expected to 2024-01-04, got %s", r.To)
	}
	if r.Len() != 4 {
		t.Errorf("Len() expected 4, got %d", r.Len())
	}

	var visited []string
	r.Each(func(d Date) bool {
		visited = append(visited, d.String())
		return true
	})
	expected := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	if len(visited) != len(expected) {
		t.Fatalf("Each() expected %d days, got %d", len(expected), len(visited))
	}
	for i := range expected {
		if visited[i] != expected[i] {
			t.Errorf("Each() day %d expected %s, got %s", i, expected[i], visited[i])
		}
	}
}

func TestRangeEachStopsEarly(t *testing.T) {
	r := Range{From: New(2024, time.March, 1), To: New(2024, time.March, 31)}
	n := 0
	r.Each(func(d Date) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Errorf("Each() expected to stop after 3 days, got %d", n)
	}
}

func TestEmptyRange(t *testing.T) {
	r := Range{From: New(2024, time.March, 2), To: New(2024, time.March, 1)}
	if r.Len() != 0 {
		t.Errorf("Len() expected 0, got %d", r.Len())
	}
	r.Each(func(d Date) bool {
		t.Errorf("Each() visited %s in an empty range", d)
		return true
	})
}
