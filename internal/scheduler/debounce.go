// Package scheduler paces the background review pass. Reviews are expensive
// (a full duplicate scan plus an optional oracle round trip), so they fire
// on accumulated transcript volume or on a quiet gap, never per segment.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
)

// Default trigger configuration constants.
const (
	defaultCharThreshold = 400
	defaultQuietInterval = 2 * time.Second
	checkInterval        = 250 * time.Millisecond
)

// Debouncer coalesces transcript activity into periodic review firings. A
// review fires when noted character volume crosses the threshold, or when
// notes have accumulated and the stream has gone quiet. Firings never
// overlap; a firing in progress absorbs triggers that arrive meanwhile.
type Debouncer struct {
	fire          func(context.Context)
	charThreshold int
	quiet         time.Duration

	mu       sync.Mutex
	pending  int
	lastNote time.Time

	runMu sync.Mutex

	wake     chan struct{}
	shutdown chan struct{}
	done     chan struct{}
	once     sync.Once

	logger logger.Logger
}

// Option applies a configuration option to the Debouncer.
type Option func(*Debouncer)

// WithCharThreshold sets the character volume that forces a firing.
func WithCharThreshold(n int) Option {
	return func(d *Debouncer) {
		if n > 0 {
			d.charThreshold = n
		}
	}
}

// WithQuietInterval sets the idle gap after which pending volume fires.
func WithQuietInterval(dur time.Duration) Option {
	return func(d *Debouncer) {
		if dur > 0 {
			d.quiet = dur
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Debouncer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a debouncer around a review callback.
func New(fire func(context.Context), opts ...Option) *Debouncer {
	d := &Debouncer{
		fire:          fire,
		charThreshold: defaultCharThreshold,
		quiet:         defaultQuietInterval,
		wake:          make(chan struct{}, 1),
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the trigger loop.
func (d *Debouncer) Start(ctx context.Context) {
	go d.loop(ctx)
}

// Note records transcript volume. Crossing the threshold wakes the loop
// immediately instead of waiting for the next tick.
func (d *Debouncer) Note(chars int) {
	if chars <= 0 {
		return
	}

	d.mu.Lock()
	d.pending += chars
	d.lastNote = time.Now()
	crossed := d.pending >= d.charThreshold
	d.mu.Unlock()

	if crossed {
		select {
		case d.wake <- struct{}{}:
		default:
		}
	}
}

// Flush fires a review synchronously regardless of pending volume. Used at
// session end so the final state never depends on timer alignment.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mu.Lock()
	d.pending = 0
	d.mu.Unlock()
	d.run(ctx)
}

// Close stops the trigger loop. It does not fire; call Flush first when the
// final pass matters.
func (d *Debouncer) Close() {
	d.once.Do(func() {
		close(d.shutdown)
	})
	<-d.done
}

func (d *Debouncer) loop(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case <-d.wake:
			d.maybeFire(ctx, true)
		case <-ticker.C:
			d.maybeFire(ctx, false)
		}
	}
}

// maybeFire checks the trigger conditions and runs the callback when one
// holds. forced skips the quiet-gap check, used for threshold wakeups.
func (d *Debouncer) maybeFire(ctx context.Context, forced bool) {
	d.mu.Lock()
	if d.pending == 0 {
		d.mu.Unlock()
		return
	}
	due := forced ||
		d.pending >= d.charThreshold ||
		time.Since(d.lastNote) >= d.quiet
	if !due {
		d.mu.Unlock()
		return
	}
	d.pending = 0
	d.mu.Unlock()

	d.run(ctx)
}

// run serializes callback executions.
func (d *Debouncer) run(ctx context.Context) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	start := time.Now()
	d.fire(ctx)
	d.logger.Debug(ctx, "review pass fired",
		logger.Int("elapsed_ms", int(time.Since(start).Milliseconds())),
	)
}
