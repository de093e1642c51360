package service

import "errors"

// Sentinel kinds for suggestion errors.
var (
	ErrSuggestionUnknown = errors.New("suggestion unknown")
	ErrSuggestionStale   = errors.New("suggestion stale")
)
