package service

import "errors"

var (
	// ErrStoreUnavailable reports a failed read or write against the
	// watchlist store. The in-memory watchlist is left unmodified.
	ErrStoreUnavailable = errors.New("watchlist store unavailable")
	// ErrTenantNotFound reports a read of a tenant with no store partition.
	ErrTenantNotFound = errors.New("tenant not found")
)
