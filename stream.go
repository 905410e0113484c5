package ansify

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wbrown/ansify/internal/logger"
)

// FrameSource is an unbounded source of live frames, such as a camera.
// Capture blocks until the next frame is available. The returned frame
// belongs to the caller.
type FrameSource interface {
	Capture(ctx context.Context) (*Frame, error)
}

// frameSlot is a single-slot handoff between capture and conversion.
// offer never blocks: a frame still waiting in the slot is replaced by
// the newer one.
type frameSlot struct {
	ch chan *Frame
}

func newFrameSlot() *frameSlot {
	return &frameSlot{ch: make(chan *Frame, 1)}
}

// offer places f in the slot and reports whether a pending frame was
// discarded to make room. It must only be called by one goroutine.
func (s *frameSlot) offer(f *Frame) (replaced bool) {
	for {
		select {
		case s.ch <- f:
			return replaced
		default:
			// consumer is lagging behind: drop the stale frame
			select {
			case <-s.ch:
				replaced = true
			default:
			}
		}
	}
}

// StreamStats counts frames moving through a Stream. Converted counts
// grids delivered on Grids. Dropped counts captured frames that were
// never delivered: replaced in the handoff slot, left behind when the
// stream stopped, or lost to a failed conversion. Once Grids is closed,
// Captured == Converted + Dropped.
type StreamStats struct {
	Captured  int64
	Converted int64
	Dropped   int64
}

// Stream converts live frames as they are captured. Capture and
// conversion run in separate goroutines joined by a single-slot handoff,
// so a slow conversion drops stale frames instead of queueing them and
// never holds capture back by more than one frame.
type Stream struct {
	grids  chan *Grid
	cancel context.CancelFunc

	errOnce sync.Once
	err     error

	captured  atomic.Int64
	converted atomic.Int64
	dropped   atomic.Int64
}

// ConvertStream starts converting frames from src. The stream runs until
// ctx is cancelled, Stop is called, or capture or conversion fails. The
// Grids channel is closed when it ends; Err then reports the failure, if
// any. Cancellation is not a failure.
func (c *Converter) ConvertStream(ctx context.Context, src FrameSource) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		grids:  make(chan *Grid),
		cancel: cancel,
	}
	slot := newFrameSlot()
	log := logger.L(ctx)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for {
			f, err := src.Capture(ctx)
			if err != nil {
				s.fail(ctx, err)
				return
			}
			s.captured.Add(1)
			if slot.offer(f) {
				s.dropped.Add(1)
				log.Debug("dropped stale frame", zap.Int64("dropped", s.dropped.Load()))
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			var f *Frame
			select {
			case <-ctx.Done():
				return
			case f = <-slot.ch:
			}

			grid, err := c.Convert(ctx, f)
			if err != nil {
				s.dropped.Add(1)
				s.fail(ctx, err)
				return
			}

			select {
			case s.grids <- grid:
				s.converted.Add(1)
			case <-ctx.Done():
				s.dropped.Add(1)
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		cancel()
		// a frame still waiting in the slot will never be converted
		select {
		case <-slot.ch:
			s.dropped.Add(1)
		default:
		}
		close(s.grids)
		hits, misses, rate := c.encoder.CacheStats()
		log.Debug("stream stopped",
			zap.Int64("captured", s.captured.Load()),
			zap.Int64("converted", s.converted.Load()),
			zap.Int64("dropped", s.dropped.Load()),
			zap.Int64("cacheHits", hits),
			zap.Int64("cacheMisses", misses),
			zap.Float64("cacheHitRate", rate))
	}()

	return s
}

// fail records the first real failure and stops the stream. Errors
// caused by cancellation are ignored.
func (s *Stream) fail(ctx context.Context, err error) {
	if ctx.Err() == nil {
		s.errOnce.Do(func() { s.err = err })
	}
	s.cancel()
}

// Grids delivers converted grids in capture order. It is closed when
// the stream ends.
func (s *Stream) Grids() <-chan *Grid { return s.grids }

// Stop ends the stream. Grids is closed once in-flight work unwinds.
func (s *Stream) Stop() { s.cancel() }

// Err returns the error that ended the stream. It is only meaningful
// after Grids has been closed.
func (s *Stream) Err() error { return s.err }

// Stats returns a snapshot of the stream's frame counters.
func (s *Stream) Stats() StreamStats {
	return StreamStats{
		Captured:  s.captured.Load(),
		Converted: s.converted.Load(),
		Dropped:   s.dropped.Load(),
	}
}
