package ansify

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// FrameSequence is a finite source of timed frames, such as the decoded
// frames of a GIF. Next returns io.EOF after the last frame.
type FrameSequence interface {
	Next(ctx context.Context) (TimedFrame, error)
}

// Sequence lazily converts a FrameSequence, one frame per call to Next.
// It is consumed once, in order, and cannot be restarted:
//
//	seq := conv.ConvertSequence(ctx, frames)
//	for seq.Next() {
//		use(seq.Grid())
//	}
//	if err := seq.Err(); err != nil { ... }
//
// The first failure ends the sequence; Err reports it. Consumers that
// must not emit partial output should use CollectSequence.
type Sequence struct {
	ctx  context.Context
	conv *Converter
	src  FrameSequence

	cur   TimedGrid
	index int
	err   error
	done  bool
}

// ConvertSequence returns a lazy conversion of src.
func (c *Converter) ConvertSequence(ctx context.Context, src FrameSequence) *Sequence {
	return &Sequence{ctx: ctx, conv: c, src: src}
}

// Next converts the next frame. It returns false at the end of the
// sequence or on the first error.
func (s *Sequence) Next() bool {
	if s.done {
		return false
	}

	tf, err := s.src.Next(s.ctx)
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = fmt.Errorf("frame %d: %w", s.index, err)
		}
		return false
	}

	grid, err := s.conv.Convert(s.ctx, tf.Frame)
	if err != nil {
		s.done = true
		s.err = fmt.Errorf("frame %d: %w", s.index, err)
		return false
	}

	s.cur = TimedGrid{Grid: grid, Delay: tf.Delay}
	s.index++
	return true
}

// Grid returns the grid produced by the last successful Next.
func (s *Sequence) Grid() TimedGrid { return s.cur }

// Err returns the error that ended the sequence, nil at a clean end.
func (s *Sequence) Err() error { return s.err }

// CollectSequence converts every frame of src. Either all grids are
// returned, in source order with their delays, or an error and none.
func (c *Converter) CollectSequence(ctx context.Context, src FrameSequence) ([]TimedGrid, error) {
	var out []TimedGrid
	seq := c.ConvertSequence(ctx, src)
	for seq.Next() {
		out = append(out, seq.Grid())
	}
	if err := seq.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SliceSequence is a FrameSequence over frames already in memory.
type SliceSequence struct {
	frames []TimedFrame
	pos    int
}

// NewSliceSequence wraps frames as a FrameSequence.
func NewSliceSequence(frames []TimedFrame) *SliceSequence {
	return &SliceSequence{frames: frames}
}

// Next returns the next frame, or io.EOF.
func (s *SliceSequence) Next(ctx context.Context) (TimedFrame, error) {
	if err := ctx.Err(); err != nil {
		return TimedFrame{}, err
	}
	if s.pos >= len(s.frames) {
		return TimedFrame{}, io.EOF
	}
	tf := s.frames[s.pos]
	s.pos++
	return tf, nil
}
