package ansify

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func timedFrames(n int) []TimedFrame {
	frames := make([]TimedFrame, n)
	for i := range frames {
		v := uint8(i * 40)
		frames[i] = TimedFrame{
			Frame: solidFrame(8, 8, RGB{R: v, G: v, B: v}),
			Delay: time.Duration(i+1) * 10 * time.Millisecond,
		}
	}
	return frames
}

func TestCollectSequencePreservesOrderAndDelays(t *testing.T) {
	t.Parallel()
	frames := timedFrames(5)
	conv, err := NewConverter(Grayscale(256), FullBlocks(), WithSize(SizePolicy{Width: 2, Height: 2}))
	if err != nil {
		t.Fatal(err)
	}

	grids, err := conv.CollectSequence(context.Background(), NewSliceSequence(frames))
	if err != nil {
		t.Fatalf("CollectSequence failed: %v", err)
	}
	if len(grids) != len(frames) {
		t.Fatalf("Expected %d grids, got %d", len(frames), len(grids))
	}
	for i, g := range grids {
		if g.Delay != frames[i].Delay {
			t.Errorf("Grid %d: expected delay %v, got %v", i, frames[i].Delay, g.Delay)
		}
		// a flat gray frame maps to its own gray level
		if got := g.Grid.At(0, 0).BG; got != i*40 {
			t.Errorf("Grid %d: expected gray index %d, got %d", i, i*40, got)
		}
	}
}

func TestSequenceIsLazy(t *testing.T) {
	t.Parallel()
	src := &countingSequence{frames: timedFrames(3)}
	conv, err := NewConverter(ANSI16(), QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}

	seq := conv.ConvertSequence(context.Background(), src)
	if src.pulled != 0 {
		t.Fatalf("Expected no frames pulled before Next, got %d", src.pulled)
	}
	if !seq.Next() {
		t.Fatalf("Expected a first grid, got error %v", seq.Err())
	}
	if src.pulled != 1 {
		t.Errorf("Expected one frame pulled, got %d", src.pulled)
	}
	for seq.Next() {
	}
	if seq.Err() != nil {
		t.Errorf("Expected clean end, got %v", seq.Err())
	}
	if seq.Next() {
		t.Error("A finished sequence must not restart")
	}
}

func TestSequenceAbortsOnFrameFailure(t *testing.T) {
	t.Parallel()
	frames := timedFrames(4)
	frames[2].Frame = NewFrame(0, 0)
	conv, err := NewConverter(ANSI16(), QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}

	grids, err := conv.CollectSequence(context.Background(), NewSliceSequence(frames))
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Expected ErrInvalidDimensions, got %v", err)
	}
	if grids != nil {
		t.Errorf("Expected no output on failure, got %d grids", len(grids))
	}
}

func TestSequenceAbortsOnSourceFailure(t *testing.T) {
	t.Parallel()
	src := &countingSequence{frames: timedFrames(2), failAt: 1, failWith: ErrDecode}
	conv, err := NewConverter(ANSI16(), QuadrantBlocks())
	if err != nil {
		t.Fatal(err)
	}

	seq := conv.ConvertSequence(context.Background(), src)
	n := 0
	for seq.Next() {
		n++
	}
	if n != 1 {
		t.Errorf("Expected one grid before the failure, got %d", n)
	}
	if !errors.Is(seq.Err(), ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", seq.Err())
	}
}

func TestSliceSequenceHonorsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSliceSequence(timedFrames(1)).Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// countingSequence records how many frames were pulled and can fail at
// a given position.
type countingSequence struct {
	frames   []TimedFrame
	pulled   int
	failAt   int
	failWith error
}

func (s *countingSequence) Next(ctx context.Context) (TimedFrame, error) {
	if s.failWith != nil && s.pulled == s.failAt {
		return TimedFrame{}, s.failWith
	}
	if s.pulled >= len(s.frames) {
		return TimedFrame{}, io.EOF
	}
	tf := s.frames[s.pulled]
	s.pulled++
	return tf, nil
}

func TestConvertSequencePackageLevel(t *testing.T) {
	t.Parallel()
	seq, err := ConvertSequence(context.Background(), NewSliceSequence(timedFrames(2)),
		Grayscale(256), FullBlocks(), SizePolicy{Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for seq.Next() {
		if seq.Grid().Grid.Cols != 1 || seq.Grid().Grid.Rows != 1 {
			t.Errorf("Expected 1x1 grid, got %dx%d", seq.Grid().Grid.Cols, seq.Grid().Grid.Rows)
		}
		n++
	}
	if seq.Err() != nil || n != 2 {
		t.Errorf("Expected 2 grids and no error, got %d and %v", n, seq.Err())
	}

	if _, err := ConvertSequence(context.Background(), NewSliceSequence(nil), nil, FullBlocks(), SizePolicy{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a missing palette, got %v", err)
	}
}
