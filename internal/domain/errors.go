package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when the store cannot be reached or a
	// statement fails. It is never retried: a retried write could be applied twice.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownReport is returned for a report name outside the catalogue.
	ErrUnknownReport = errors.New("unknown report")

	// ErrInvalidInput is returned when a caller value cannot be coerced.
	ErrInvalidInput = errors.New("invalid input")
)
