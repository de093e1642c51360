package worker_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	worker "github.com/Naveen701372/Networking-Wingman/internal/adapters/mq/worker"
	"github.com/Naveen701372/Networking-Wingman/internal/adapters/oracle"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/aggregate"
	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	logging "github.com/Naveen701372/Networking-Wingman/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// Mock implementations for testing.
type mockQueue struct {
	segmentChan chan worker.Segment
}

func newMockQueue() *mockQueue {
	return &mockQueue{segmentChan: make(chan worker.Segment, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Segment {
	return mq.segmentChan
}

func (mq *mockQueue) add(seg worker.Segment) {
	mq.segmentChan <- seg
}

type mockExtractor struct {
	mu          sync.Mutex
	transcripts []string
	candidate   model.Candidate
	err         error
	called      chan struct{}
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{called: make(chan struct{}, 10)}
}

func (me *mockExtractor) Extract(ctx context.Context, transcript string, active *model.Record) (model.Candidate, error) {
	me.mu.Lock()
	me.transcripts = append(me.transcripts, transcript)
	cand, err := me.candidate, me.err
	me.mu.Unlock()
	me.called <- struct{}{}
	return cand, err
}

func (me *mockExtractor) setErr(err error) {
	me.mu.Lock()
	me.err = err
	me.mu.Unlock()
}

func (me *mockExtractor) calls() []string {
	me.mu.Lock()
	defer me.mu.Unlock()
	return append([]string(nil), me.transcripts...)
}

type mockApplier struct {
	mu         sync.Mutex
	candidates []model.Candidate
	outcome    aggregate.Outcome
	applied    chan struct{}
}

func newMockApplier(out aggregate.Outcome) *mockApplier {
	return &mockApplier{outcome: out, applied: make(chan struct{}, 10)}
}

func (ma *mockApplier) Apply(ctx context.Context, cand model.Candidate) aggregate.Outcome {
	ma.mu.Lock()
	ma.candidates = append(ma.candidates, cand)
	out := ma.outcome
	ma.mu.Unlock()
	ma.applied <- struct{}{}
	return out
}

func (ma *mockApplier) count() int {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	return len(ma.candidates)
}

type mockRecords struct {
	mu     sync.Mutex
	active *model.Record
}

func (mr *mockRecords) GetActive(ctx context.Context) *model.Record {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return mr.active
}

func (mr *mockRecords) UpdateActive(ctx context.Context, fn func(*model.Record)) bool {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if mr.active == nil {
		return false
	}
	fn(mr.active)
	return true
}

type mockMonitor struct {
	started atomic.Int64
	done    atomic.Int64
}

func (mm *mockMonitor) SegmentStarted() { mm.started.Add(1) }
func (mm *mockMonitor) SegmentDone()    { mm.done.Add(1) }

func waitSignal(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker")
	}
}

func TestWorkerProcessing(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		ext := newMockExtractor()
		ext.candidate = model.Candidate{Name: "Elena Vasquez"}
		app := newMockApplier(aggregate.Updated)
		recs := &mockRecords{}
		window := worker.NewWindow(0)

		w := worker.NewInMemoryWorker(q, ext, app, recs, window, worker.WithName("w0"))
		go w.Run(ctx)

		convey.Convey("When a final segment arrives", func() {
			q.add(worker.Segment{SegmentID: "seg1", SessionID: "s1", Text: "nice to meet you, I'm Elena", IsFinal: true})
			waitSignal(t, app.applied)

			convey.Convey("Then the extractor sees a tagged window and the candidate is applied", func() {
				calls := ext.calls()
				convey.So(calls, convey.ShouldHaveLength, 1)
				convey.So(calls[0], convey.ShouldContainSubstring, "nice to meet you, I'm Elena")
				convey.So(strings.Contains(calls[0], ":"), convey.ShouldBeTrue)
				convey.So(app.count(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When an interim segment arrives", func() {
			q.add(worker.Segment{SegmentID: "seg2", SessionID: "s1", Text: "partial words", IsFinal: false})
			time.Sleep(100 * time.Millisecond)

			convey.Convey("Then nothing is extracted or applied", func() {
				convey.So(ext.calls(), convey.ShouldBeEmpty)
				convey.So(app.count(), convey.ShouldEqual, 0)
				convey.So(window.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When consecutive finals arrive", func() {
			q.add(worker.Segment{SegmentID: "seg3", SessionID: "s1", Text: "first line", IsFinal: true})
			waitSignal(t, app.applied)
			q.add(worker.Segment{SegmentID: "seg4", SessionID: "s1", Text: "second line", IsFinal: true})
			waitSignal(t, app.applied)

			convey.Convey("Then the window accumulates oldest first", func() {
				calls := ext.calls()
				convey.So(calls, convey.ShouldHaveLength, 2)
				convey.So(calls[1], convey.ShouldContainSubstring, "first line")
				convey.So(calls[1], convey.ShouldContainSubstring, "second line")
				convey.So(strings.Index(calls[1], "first line"), convey.ShouldBeLessThan, strings.Index(calls[1], "second line"))
			})
		})
	})
}

func TestWorkerOracleFailures(t *testing.T) {
	convey.Convey("Given a worker whose extractor fails", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		ext := newMockExtractor()
		app := newMockApplier(aggregate.Updated)
		recs := &mockRecords{}
		window := worker.NewWindow(0)

		w := worker.NewInMemoryWorker(q, ext, app, recs, window)
		go w.Run(ctx)

		convey.Convey("When extraction returns a transport error", func() {
			ext.setErr(errors.New("oracle unreachable"))
			q.add(worker.Segment{SegmentID: "seg1", SessionID: "s1", Text: "hello there", IsFinal: true})
			waitSignal(t, ext.called)
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the segment is dropped without an apply", func() {
				convey.So(app.count(), convey.ShouldEqual, 0)
			})

			convey.Convey("Then the window still grew", func() {
				convey.So(window.Len(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When extraction returns unparseable output", func() {
			ext.setErr(&oracle.ParseFailure{Reason: "invalid json", Raw: "not json"})
			q.add(worker.Segment{SegmentID: "seg2", SessionID: "s1", Text: "hello again", IsFinal: true})
			waitSignal(t, ext.called)
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the segment is dropped without an apply", func() {
				convey.So(app.count(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestWorkerSnippetCapture(t *testing.T) {
	convey.Convey("Given a worker whose applier creates cards", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		ext := newMockExtractor()
		ext.candidate = model.Candidate{Name: "Marcus Webb"}
		app := newMockApplier(aggregate.Created)
		rec := model.NewRecord("s1")
		rec.Name = "Marcus Webb"
		recs := &mockRecords{active: rec}
		window := worker.NewWindow(0)

		w := worker.NewInMemoryWorker(q, ext, app, recs, window)
		go w.Run(ctx)

		convey.Convey("When the creating segment is processed", func() {
			q.add(worker.Segment{SegmentID: "seg1", SessionID: "s1", Text: "I'm Marcus, I design at Figma", IsFinal: true})
			waitSignal(t, app.applied)
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the new card keeps the triggering snippet", func() {
				convey.So(recs.GetActive(ctx).TranscriptSnippet, convey.ShouldEqual, "I'm Marcus, I design at Figma")
			})

			convey.Convey("And a later segment never overwrites it", func() {
				q.add(worker.Segment{SegmentID: "seg2", SessionID: "s1", Text: "we ship design tools", IsFinal: true})
				waitSignal(t, app.applied)
				time.Sleep(50 * time.Millisecond)

				convey.So(recs.GetActive(ctx).TranscriptSnippet, convey.ShouldEqual, "I'm Marcus, I design at Figma")
			})
		})
	})
}

func TestWorkerMonitor(t *testing.T) {
	convey.Convey("Given a worker reporting to a monitor", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		ext := newMockExtractor()
		ext.candidate = model.Candidate{Name: "Elena"}
		app := newMockApplier(aggregate.Updated)
		mon := &mockMonitor{}

		w := worker.NewInMemoryWorker(q, ext, app, &mockRecords{}, worker.NewWindow(0), worker.WithMonitor(mon))
		go w.Run(ctx)

		convey.Convey("When segments are processed", func() {
			q.add(worker.Segment{SegmentID: "seg1", SessionID: "s1", Text: "first", IsFinal: true})
			waitSignal(t, app.applied)
			q.add(worker.Segment{SegmentID: "seg2", SessionID: "s1", Text: "interim", IsFinal: false})
			q.add(worker.Segment{SegmentID: "seg3", SessionID: "s1", Text: "second", IsFinal: true})
			waitSignal(t, app.applied)
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then every segment counts, interim ones included", func() {
				convey.So(mon.started.Load(), convey.ShouldEqual, 3)
				convey.So(mon.done.Load(), convey.ShouldEqual, 3)
			})
		})
	})
}

func TestPoolProcessing(t *testing.T) {
	// The pool is its own monitor so the throughput gauge sees every
	// processed segment.
	var _ worker.Monitor = (*worker.Pool)(nil)

	convey.Convey("Given a started pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := newMockQueue()
		ext := newMockExtractor()
		ext.candidate = model.Candidate{Name: "Elena"}
		app := newMockApplier(aggregate.Updated)

		pool := worker.NewPool(2, q, ext, app, &mockRecords{}, worker.NewWindow(0))
		pool.Start(ctx)
		defer func() {
			cancel()
			pool.Stop()
		}()

		convey.Convey("When segments flow through", func() {
			q.add(worker.Segment{SegmentID: "seg1", SessionID: "s1", Text: "hello", IsFinal: true})
			waitSignal(t, app.applied)
			q.add(worker.Segment{SegmentID: "seg2", SessionID: "s1", Text: "again", IsFinal: true})
			waitSignal(t, app.applied)

			convey.Convey("Then the pool's workers applied them", func() {
				convey.So(app.count(), convey.ShouldEqual, 2)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		ctx := context.Background()

		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, newMockExtractor(), newMockApplier(aggregate.Discarded), &mockRecords{}, worker.NewWindow(0))
		go w.Run(ctx)

		convey.Convey("When shutdown is requested", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then the worker stops cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestWindow(t *testing.T) {
	convey.Convey("Given a small transcript window", t, func() {
		window := worker.NewWindow(40)

		convey.Convey("When lines are appended past the budget", func() {
			window.Append("other", "the first spoken line")
			window.Append("self", "a second spoken line")
			window.Append("other", "third line")

			convey.Convey("Then the oldest lines fall off the front", func() {
				text := window.String()
				convey.So(text, convey.ShouldNotContainSubstring, "the first spoken line")
				convey.So(text, convey.ShouldContainSubstring, "third line")
				convey.So(window.Len(), convey.ShouldBeLessThanOrEqualTo, 40)
			})
		})

		convey.Convey("When a blank line is appended", func() {
			window.Append("other", "   ")

			convey.Convey("Then the window ignores it", func() {
				convey.So(window.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the window resets", func() {
			window.Append("other", "something")
			window.Reset()

			convey.Convey("Then it is empty again", func() {
				convey.So(window.String(), convey.ShouldEqual, "")
				convey.So(window.Len(), convey.ShouldEqual, 0)
			})
		})
	})
}
