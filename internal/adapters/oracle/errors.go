package oracle

import (
	"errors"
	"fmt"
)

// Sentinel kinds for oracle errors.
var (
	ErrTransport = errors.New("oracle transport failed")
	ErrNoAPIKey  = errors.New("oracle api key missing")
)

// ParseFailure is a typed error for malformed oracle output. It carries the
// raw payload for debug logging; it is never rethrown past the worker loop.
type ParseFailure struct {
	Reason string
	Raw    string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("oracle response parse failure: %s", e.Reason)
}

// IsParseFailure reports whether err is a ParseFailure.
func IsParseFailure(err error) bool {
	var pf *ParseFailure
	return errors.As(err, &pf)
}
