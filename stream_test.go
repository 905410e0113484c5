package ansify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// counterSource produces solid gray frames whose level is the capture
// count, optionally failing after a number of frames.
type counterSource struct {
	n        atomic.Int64
	interval time.Duration
	failAt   int64
}

func (s *counterSource) Capture(ctx context.Context) (*Frame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.interval):
	}
	n := s.n.Add(1)
	if s.failAt > 0 && n >= s.failAt {
		return nil, ErrCapture
	}
	v := uint8(n % 256)
	return solidFrame(4, 4, RGB{R: v, G: v, B: v}), nil
}

func newStreamConverter(t *testing.T) *Converter {
	t.Helper()
	conv, err := NewConverter(Grayscale(256), FullBlocks(), WithSize(SizePolicy{Width: 2, Height: 2}))
	if err != nil {
		t.Fatal(err)
	}
	return conv
}

func TestFrameSlotKeepsNewest(t *testing.T) {
	t.Parallel()
	slot := newFrameSlot()
	frames := []*Frame{NewFrame(1, 1), NewFrame(2, 2), NewFrame(3, 3)}

	replaced := 0
	for _, f := range frames {
		if slot.offer(f) {
			replaced++
		}
	}
	if replaced != 2 {
		t.Errorf("Expected 2 replaced frames, got %d", replaced)
	}
	if len(slot.ch) != 1 {
		t.Fatalf("Expected exactly one buffered frame, got %d", len(slot.ch))
	}
	if got := <-slot.ch; got != frames[2] {
		t.Errorf("Expected the newest frame, got %dx%d", got.Width, got.Height)
	}
}

func TestStreamDeliversGridsInOrder(t *testing.T) {
	t.Parallel()
	src := &counterSource{interval: time.Millisecond}
	s := newStreamConverter(t).ConvertStream(context.Background(), src)

	last := -1
	received := 0
	for g := range s.Grids() {
		level := g.At(0, 0).BG
		if level <= last {
			t.Errorf("Grid for frame %d arrived after frame %d", level, last)
		}
		last = level
		received++
		if received == 5 {
			s.Stop()
		}
	}
	if err := s.Err(); err != nil {
		t.Errorf("Expected no error after Stop, got %v", err)
	}
	if received < 5 {
		t.Errorf("Expected at least 5 grids, got %d", received)
	}
}

func TestStreamDropsStaleFrames(t *testing.T) {
	t.Parallel()
	src := &counterSource{interval: time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newStreamConverter(t).ConvertStream(ctx, src)

	// Nobody reads Grids: conversion stalls on delivery while capture
	// keeps going.
	time.Sleep(100 * time.Millisecond)
	stats := s.Stats()
	if stats.Dropped == 0 {
		t.Errorf("Expected stale frames to be dropped, got %+v", stats)
	}
	if pending := stats.Captured - stats.Converted - stats.Dropped; pending > 3 {
		t.Errorf("Expected at most a slot and in-flight frames pending, got %d (%+v)", pending, stats)
	}

	cancel()
	for range s.Grids() {
	}
	if err := s.Err(); err != nil {
		t.Errorf("Cancellation is not a failure, got %v", err)
	}
}

func TestStreamReportsCaptureFailure(t *testing.T) {
	t.Parallel()
	src := &counterSource{interval: time.Millisecond, failAt: 4}
	s := newStreamConverter(t).ConvertStream(context.Background(), src)

	for range s.Grids() {
	}
	if !errors.Is(s.Err(), ErrCapture) {
		t.Errorf("Expected ErrCapture, got %v", s.Err())
	}
	stats := s.Stats()
	if stats.Captured != 3 {
		t.Errorf("Expected 3 captured frames, got %d", stats.Captured)
	}
	if stats.Captured != stats.Converted+stats.Dropped {
		t.Errorf("Expected every captured frame delivered or dropped, got %+v", stats)
	}
}

func TestStreamStatsBalanceAfterStop(t *testing.T) {
	t.Parallel()
	for i := 0; i < 20; i++ {
		src := &counterSource{interval: 100 * time.Microsecond}
		s := newStreamConverter(t).ConvertStream(context.Background(), src)

		// Stop while capture is ahead of a slow reader, so frames are
		// left in the slot and at delivery.
		received := 0
		for range s.Grids() {
			received++
			time.Sleep(2 * time.Millisecond)
			if received == 3 {
				s.Stop()
			}
		}
		stats := s.Stats()
		if stats.Converted != int64(received) {
			t.Errorf("Expected Converted to equal the %d delivered grids, got %+v", received, stats)
		}
		if stats.Captured != stats.Converted+stats.Dropped {
			t.Errorf("Expected Captured == Converted + Dropped after stop, got %+v", stats)
		}
	}
}

func TestConvertStreamPackageLevel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s, err := ConvertStream(ctx, &counterSource{interval: time.Millisecond}, ANSI16(), QuadrantBlocks(), SizePolicy{Width: 2})
	if err != nil {
		t.Fatal(err)
	}
	for range s.Grids() {
	}
	if err := s.Err(); err != nil {
		t.Errorf("Deadline ending the stream is not a failure, got %v", err)
	}

	if _, err := ConvertStream(ctx, &counterSource{}, nil, QuadrantBlocks(), SizePolicy{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
