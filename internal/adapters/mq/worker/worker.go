// Package worker defines worker contracts for asynchronous transcript
// extraction and record updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Naveen701372/Networking-Wingman/internal/adapters/oracle"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/aggregate"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/attribution"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
	"github.com/Naveen701372/Networking-Wingman/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Segment abstracts what workers read off the queue.
// Using the model.Segment type for consistency.
type Segment = model.Segment

// Extractor proposes candidate attributes from a transcript window.
type Extractor interface {
	Extract(ctx context.Context, transcript string, active *model.Record) (model.Candidate, error)
}

// Applier runs a candidate through the record state machine.
type Applier interface {
	Apply(ctx context.Context, cand model.Candidate) aggregate.Outcome
}

// Records is the slice of the store workers touch directly.
type Records interface {
	GetActive(ctx context.Context) *model.Record
	UpdateActive(ctx context.Context, fn func(*model.Record)) bool
}

// Queue defines how workers receive segments.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Segment
}

// Monitor observes worker activity. The pool implements it to feed the
// throughput and idle gauges.
type Monitor interface {
	// SegmentStarted marks a worker busy with one segment.
	SegmentStarted()

	// SegmentDone marks the segment finished.
	SegmentDone()
}

// Worker processes transcript segments and applies extracted candidates
// using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining segments before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing segments.
type InMemoryWorker struct {
	queue     Queue
	extractor Extractor
	applier   Applier
	records   Records
	window    *Window
	name      string
	monitor   Monitor

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, extractor Extractor, applier Applier, records Records, window *Window, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		extractor: extractor,
		applier:   applier,
		records:   records,
		window:    window,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"), // will be updated by options
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	segmentChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case seg, ok := <-segmentChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if w.monitor != nil {
				w.monitor.SegmentStarted()
			}
			err := w.processSegment(ctx, seg)
			if w.monitor != nil {
				w.monitor.SegmentDone()
			}
			if err != nil {
				w.logger.Error(ctx, "error processing segment", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processSegment handles a single finalized segment: classify the speaker,
// grow the transcript window, ask the extraction oracle for a candidate and
// hand it to the aggregator. Oracle failures degrade to "no candidate" and
// never propagate past this loop.
func (w *InMemoryWorker) processSegment(ctx context.Context, seg Segment) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	if !seg.IsFinal {
		// Interim transcripts are display-only upstream; only finals mutate
		// records.
		return nil
	}

	label := attribution.Classify(seg.Text)
	w.window.Append(label, seg.Text)
	metrics.RecordSegmentIngested()

	cand, err := w.extractor.Extract(ctx, w.window.String(), w.records.GetActive(ctx))
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "extraction_error")
		if oracle.IsParseFailure(err) {
			w.logger.Debug(ctx, "extraction unparseable, segment dropped",
				logger.String("segmentID", seg.SegmentID),
			)
			return nil
		}
		w.logger.Warn(ctx, "extraction failed, segment dropped",
			logger.String("segmentID", seg.SegmentID),
			logger.Error(err),
		)
		return nil
	}

	out := w.applier.Apply(ctx, cand)
	if out == aggregate.Created || out == aggregate.Switched {
		w.records.UpdateActive(ctx, func(rec *model.Record) {
			if rec.TranscriptSnippet == "" {
				rec.TranscriptSnippet = seg.Text
			}
		})
	}

	w.logger.Debug(ctx, "segment processed",
		logger.String("segmentID", seg.SegmentID),
		logger.String("attribution", string(label)),
		logger.String("outcome", out.String()),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	extractor Extractor
	applier   Applier
	records   Records
	window    *Window

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    atomic.Int64
	busyCount         atomic.Int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool sharing one transcript window.
func NewPool(workerCount int, queue Queue, extractor Extractor, applier Applier, records Records, window *Window) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		extractor:         extractor,
		applier:           applier,
		records:           records,
		window:            window,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			extractor,
			applier,
			records,
			window,
			WithName("worker-"+strconv.Itoa(i)),
			WithMonitor(pool),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// SegmentStarted implements Monitor.
func (p *Pool) SegmentStarted() {
	p.busyCount.Add(1)
}

// SegmentDone implements Monitor.
func (p *Pool) SegmentDone() {
	p.busyCount.Add(-1)
	p.processedCount.Add(1)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	processed := p.processedCount.Swap(0)
	if timeDiff > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(processed) / timeDiff)
	}
	p.lastProcessedTime = now

	idle := len(p.workers) - int(p.busyCount.Load())
	if idle < 0 {
		idle = 0
	}
	metrics.UpdateWorkerIdleCount(idle)
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new segments
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
