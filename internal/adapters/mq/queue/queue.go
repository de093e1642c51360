// Package queue defines the contract for enqueuing and consuming finalized
// transcript segments.
//
// The in-memory bounded queue keeps the ingestion path non-blocking: a full
// queue rejects the segment rather than stalling the live pipeline.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultBufferSize    = 10000
)

// Segment is the payload type flowing through the queue.
type Segment = model.Segment

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a segment to the queue.
	// Returns false if the queue is full and the segment was not enqueued.
	Enqueue(ctx context.Context, s Segment) bool

	// Dequeue returns a channel that will receive segments as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Segment

	// Len returns the current number of queued segments.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new segments
	// can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	segments   chan Segment
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.segments = make(chan Segment, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a segment to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Segment) bool {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.segments) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.segments <- s:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.segments)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive segments as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Segment {
	out := make(chan Segment)
	go func() {
		defer close(out)
		for seg := range q.segments {
			select {
			case out <- seg:
				metrics.RecordQueueDequeue()
				currentSize := len(q.segments)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued segments.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.segments)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.segments)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
