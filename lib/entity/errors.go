package entity

import "errors"

var (
	// ErrInvalidKey means a natural key is malformed for its kind.
	// Deterministic, surfaced on every call.
	ErrInvalidKey = errors.New("invalid natural key")
	// ErrFetchFailed wraps transport-level failures from the fetch
	// collaborator. Transient: never cached, the next call refetches.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrParseFailed means an expected structure was absent from a page.
	ErrParseFailed = errors.New("parse failed")
	// ErrNotAvailable means a field is legitimately missing, e.g. weather
	// for a dome game. It is a valid outcome and gets cached like one.
	ErrNotAvailable = errors.New("not available")
)
