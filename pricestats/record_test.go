package pricestats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord(strings.Split("2024;01;15;10;45.50;45.50;", ";"), 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, 1, rec.Month)
	assert.Equal(t, 15, rec.Day)
	assert.Equal(t, 10, rec.Hour)
	assert.Equal(t, "45.5", rec.Price.String())
	assert.Equal(t, "2024-01-15", rec.Date())
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want error
	}{
		{name: "header", row: "MARGINALPDBCPT;", want: ErrMalformedRow},
		{name: "trailer", row: "*", want: ErrMalformedRow},
		{name: "six fields", row: "2024;01;15;10;45.50;x", want: ErrMalformedRow},
		{name: "eight fields", row: "2024;01;15;10;45.50;x;y;z", want: ErrMalformedRow},
		{name: "hour not a number", row: "2024;01;15;ten;45.50;x;y", want: ErrInvalidRow},
		{name: "price not a number", row: "2024;01;15;10;n/a;x;y", want: ErrInvalidRow},
		{name: "price nan", row: "2024;01;15;10;NaN;x;y", want: ErrInvalidRow},
		{name: "hour empty", row: "2024;01;15;;45.50;x;y", want: ErrInvalidRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(strings.Split(tt.row, ";"), 0)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRecordTrimsSpaces(t *testing.T) {
	rec, err := ParseRecord(strings.Split("2024; 01; 15; 7 ; 12.5 ;;", ";"), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Hour)
	assert.Equal(t, "12.5", rec.Price.String())
}

func TestParseRecordLooseDate(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		hasDate bool
	}{
		{name: "byte order mark", row: "\uFEFF2024;01;15;10;45.50;x;y", hasDate: true},
		{name: "date header", row: "Y;M;D;10;60;x;y", hasDate: false},
		{name: "day missing", row: "2024;01;;10;45.50;x;y", hasDate: false},
		{name: "month out of range", row: "2024;13;15;10;45.50;x;y", hasDate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(strings.Split(tt.row, ";"), 0)
			require.NoError(t, err)
			assert.Equal(t, 10, rec.Hour)
			assert.Equal(t, tt.hasDate, rec.HasDate())
		})
	}
}
