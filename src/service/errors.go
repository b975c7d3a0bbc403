package service

import "errors"

var (
	// ErrDataUnavailable marks a cycle whose market data could not be
	// fetched in time. Recoverable: the next scheduled cycle retries.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrPersistence marks a failed save after which any in-memory
	// registration for the attempt has already been rolled back.
	ErrPersistence = errors.New("persistence failure")
)
