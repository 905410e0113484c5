// Package ansify converts images, animated GIFs and live camera frames
// into ANSI art: a grid of character cells, each with a foreground color,
// a background color and a block glyph.
//
// Each cell is found by splitting its source region into the glyph
// library's bit grid, then picking the glyph whose coverage mask best
// explains the region as two flat colors. Both colors are quantized to
// the palette.
//
//	conv, err := ansify.NewConverter(ansify.ANSI256(), ansify.QuadrantBlocks(),
//		ansify.WithSize(ansify.SizePolicy{Width: 80}))
//	grid, err := conv.Convert(ctx, frame)
package ansify

import "context"

// Convert converts a single frame. It is shorthand for a one-off
// Converter.
func Convert(ctx context.Context, f *Frame, palette *Palette, glyphs *GlyphLibrary, policy SizePolicy) (*Grid, error) {
	conv, err := NewConverter(palette, glyphs, WithSize(policy))
	if err != nil {
		return nil, err
	}
	return conv.Convert(ctx, f)
}

// ConvertSequence lazily converts a finite frame sequence with one
// sizing policy shared by every frame.
func ConvertSequence(ctx context.Context, src FrameSequence, palette *Palette, glyphs *GlyphLibrary, policy SizePolicy) (*Sequence, error) {
	conv, err := NewConverter(palette, glyphs, WithSize(policy))
	if err != nil {
		return nil, err
	}
	return conv.ConvertSequence(ctx, src), nil
}

// ConvertStream converts live frames until ctx is cancelled or the
// source fails.
func ConvertStream(ctx context.Context, src FrameSource, palette *Palette, glyphs *GlyphLibrary, policy SizePolicy) (*Stream, error) {
	conv, err := NewConverter(palette, glyphs, WithSize(policy))
	if err != nil {
		return nil, err
	}
	return conv.ConvertStream(ctx, src), nil
}
