// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SegmentQueueSize bounds the in-memory transcript segment queue.
	SegmentQueueSize int `koanf:"segment_queue_size"`

	// WorkerCount sets the number of extraction workers. Oracle calls block
	// for seconds, so workers outnumber CPUs.
	WorkerCount int `koanf:"worker_count"`

	// SelfNames lists the operator's own names; candidates matching any of
	// them are filtered out before processing.
	SelfNames []string `koanf:"self_names"`

	// OracleEnabled switches the LLM-backed oracles on. When false the
	// service runs with no-op oracles (local heuristics only).
	OracleEnabled bool `koanf:"oracle_enabled"`

	// OracleModel and OracleBaseURL configure the chat-completions client.
	// The API key comes from OPENAI_API_KEY.
	OracleModel   string `koanf:"oracle_model"`
	OracleBaseURL string `koanf:"oracle_base_url"`

	// OracleTimeoutMS bounds each oracle round trip. Timeout is treated as
	// "no proposal", never as a pipeline stall.
	OracleTimeoutMS int `koanf:"oracle_timeout_ms"`

	// DebounceChars triggers the duplicate pass after this much new final
	// transcript has accumulated.
	DebounceChars int `koanf:"debounce_chars"`

	// DebounceIntervalMS is the quiet period before a pending duplicate
	// pass fires.
	DebounceIntervalMS int `koanf:"debounce_interval_ms"`

	// TranscriptWindowChars bounds the transcript tail fed to the
	// extraction oracle and stored on the card.
	TranscriptWindowChars int `koanf:"transcript_window_chars"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9090",
		SegmentQueueSize:      10_000,
		WorkerCount:           runtime.NumCPU() * 4,
		SelfNames:             nil,
		OracleEnabled:         false,
		OracleModel:           "gpt-4o-mini",
		OracleBaseURL:         "",
		OracleTimeoutMS:       8_000,
		DebounceChars:         400,
		DebounceIntervalMS:    2_000,
		TranscriptWindowChars: 1_200,
	}
}
