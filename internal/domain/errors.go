package domain

import "errors"

var (
	// ErrNoSourceData is returned when every source came back empty or failed
	ErrNoSourceData = errors.New("no products found across available sources")

	// ErrNoComparableProducts is returned when no match group survived
	// validation and deduplication
	ErrNoComparableProducts = errors.New("no comparable products found")

	// ErrUnknownSource is returned when a request names a source that is not
	// registered
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSourceFailure is returned when a single source's fetch fails
	ErrSourceFailure = errors.New("source request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
