// Package worker defines worker contracts for asynchronous transcript
// extraction and record updates.
package worker

import (
	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithMonitor attaches a processing monitor, usually the owning pool.
func WithMonitor(m Monitor) Option {
	return func(w *InMemoryWorker) {
		if m != nil {
			w.monitor = m
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
