package pricestats

import "errors"

var (
	ErrNoInputFiles = errors.New("no input files")
	ErrEmptyDataset = errors.New("no valid price rows in input files")

	ErrMalformedRow = errors.New("malformed row")
	ErrInvalidRow   = errors.New("invalid row")
)
