package domain

import "errors"

// Sentinel errors for geocoding outcomes. Adapters wrap transport and decode
// failures with context; these two are terminal states call sites branch on.
var (
	// ErrNotFound means the place search returned zero candidates. It must
	// reach the user as an explicit notice, never be silently dropped.
	ErrNotFound = errors.New("place not found")

	// ErrEmptyQuery means the query was empty or whitespace-only; no request
	// is issued for it.
	ErrEmptyQuery = errors.New("empty place query")
)
