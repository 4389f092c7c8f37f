package engine

import "errors"

var (
	// ErrInvalidInput reports an empty symbol or a numeric field that does
	// not parse as a non-negative decimal.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound reports an operation on a symbol absent from the watchlist.
	ErrNotFound = errors.New("symbol not found")
)
