package scheduler_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Naveen701372/Networking-Wingman/internal/scheduler"
	logging "github.com/Naveen701372/Networking-Wingman/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func waitForFirings(t *testing.T, count *atomic.Int64, want int64, within time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if count.Load() >= want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return count.Load() >= want
}

func TestDebouncerThreshold(t *testing.T) {
	Convey("Given a debouncer with a 100 char threshold and a long quiet gap", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var fired atomic.Int64
		d := scheduler.New(
			func(context.Context) { fired.Add(1) },
			scheduler.WithCharThreshold(100),
			scheduler.WithQuietInterval(time.Minute),
		)
		d.Start(ctx)
		defer d.Close()

		Convey("When noted volume stays under the threshold", func() {
			d.Note(40)
			time.Sleep(400 * time.Millisecond)

			Convey("Then no review fires", func() {
				So(fired.Load(), ShouldEqual, 0)
			})
		})

		Convey("When noted volume crosses the threshold", func() {
			d.Note(60)
			d.Note(60)

			Convey("Then a review fires promptly", func() {
				So(waitForFirings(t, &fired, 1, time.Second), ShouldBeTrue)
			})
		})

		Convey("When zero or negative volume is noted", func() {
			d.Note(0)
			d.Note(-5)
			time.Sleep(300 * time.Millisecond)

			Convey("Then nothing accumulates", func() {
				So(fired.Load(), ShouldEqual, 0)
			})
		})
	})
}

func TestDebouncerQuietGap(t *testing.T) {
	Convey("Given a debouncer with a short quiet interval", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var fired atomic.Int64
		d := scheduler.New(
			func(context.Context) { fired.Add(1) },
			scheduler.WithCharThreshold(10_000),
			scheduler.WithQuietInterval(300*time.Millisecond),
		)
		d.Start(ctx)
		defer d.Close()

		Convey("When a small note is followed by silence", func() {
			d.Note(25)

			Convey("Then the quiet gap fires the pending review", func() {
				So(waitForFirings(t, &fired, 1, 2*time.Second), ShouldBeTrue)

				Convey("And silence with nothing pending fires nothing more", func() {
					before := fired.Load()
					time.Sleep(600 * time.Millisecond)
					So(fired.Load(), ShouldEqual, before)
				})
			})
		})
	})
}

func TestDebouncerFlush(t *testing.T) {
	Convey("Given a debouncer that has not been started", t, func() {
		var fired atomic.Int64
		d := scheduler.New(
			func(context.Context) { fired.Add(1) },
			scheduler.WithCharThreshold(10_000),
			scheduler.WithQuietInterval(time.Minute),
		)

		Convey("When flushed with nothing pending", func() {
			d.Flush(context.Background())

			Convey("Then the review still fires synchronously", func() {
				So(fired.Load(), ShouldEqual, 1)
			})
		})

		Convey("When flushed after notes below the threshold", func() {
			d.Note(5)
			d.Flush(context.Background())

			Convey("Then pending volume is consumed", func() {
				So(fired.Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestDebouncerClose(t *testing.T) {
	Convey("Given a started debouncer", t, func() {
		var fired atomic.Int64
		d := scheduler.New(
			func(context.Context) { fired.Add(1) },
			scheduler.WithCharThreshold(100),
		)
		d.Start(context.Background())

		Convey("When closed", func() {
			d.Close()

			Convey("Then notes after close never fire", func() {
				d.Note(500)
				time.Sleep(400 * time.Millisecond)
				So(fired.Load(), ShouldEqual, 0)
			})

			Convey("Then a second close is a no-op", func() {
				So(d.Close, ShouldNotPanic)
			})
		})
	})
}
