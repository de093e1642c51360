// Package simulate drives the engine with a scripted networking
// conversation over the public HTTP API. It exists for load and behavior
// checks against a running instance, not for unit testing.
package simulate

import "time"

// Config holds simulation parameters.
type Config struct {
	BaseURL      string
	SessionID    string
	People       int
	SegmentDelay time.Duration
	Timeout      time.Duration
	Query        string
	LogFile      string
	Verbose      bool
}

// Stats aggregates the outcome of one simulation run.
type Stats struct {
	SegmentsSubmitted int
	SegmentsFailed    int
	RecordsFinal      int
	MatchName         string
	Elapsed           time.Duration
}
