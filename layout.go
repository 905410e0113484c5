package ansify

import (
	"fmt"
	"math"
)

// SizePolicy requests an output grid size in characters. Zero means
// "not given".
//
//   - Width and Height: used directly.
//   - Width only: Height follows the source aspect ratio.
//   - Height only: Width follows the source aspect ratio.
//   - Neither: one character per source pixel.
type SizePolicy struct {
	Width  int
	Height int
}

// Dimensions resolves a size policy against a source size. The glyph
// library's aspect correction accounts for non-square character cells.
// A zero result fails with ErrInvalidDimensions.
func Dimensions(srcWidth, srcHeight int, policy SizePolicy, glyphs *GlyphLibrary) (cols, rows int, err error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 0, 0, fmt.Errorf("source is %dx%d: %w", srcWidth, srcHeight, ErrInvalidDimensions)
	}
	if policy.Width < 0 || policy.Height < 0 {
		return 0, 0, fmt.Errorf("requested %dx%d: %w", policy.Width, policy.Height, ErrInvalidDimensions)
	}

	corr := glyphs.AspectCorrection()
	ratio := float64(srcHeight) / float64(srcWidth)

	switch {
	case policy.Width > 0 && policy.Height > 0:
		cols, rows = policy.Width, policy.Height
	case policy.Width > 0:
		cols = policy.Width
		rows = int(math.Round(float64(policy.Width) * ratio * corr))
	case policy.Height > 0:
		rows = policy.Height
		cols = int(math.Round(float64(policy.Height) / ratio / corr))
	default:
		cols, rows = srcWidth, srcHeight
	}

	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("%dx%d source resolves to %dx%d cells: %w",
			srcWidth, srcHeight, cols, rows, ErrInvalidDimensions)
	}
	return cols, rows, nil
}

// Span is a half-open pixel interval [Start, End).
type Span struct {
	Start, End int
}

// Len returns the number of pixels in the span.
func (s Span) Len() int { return s.End - s.Start }

// Region is the continuous source rectangle covered by one output cell.
// Bounds may be fractional; sampling snaps them to pixels.
type Region struct {
	X0, Y0, X1, Y1 float64
}

// Layout is a resolved grid size for one source size: the cell counts
// plus the partition of source pixels among cells.
type Layout struct {
	SrcWidth, SrcHeight int
	Cols, Rows          int
	ColSpans            []Span
	RowSpans            []Span
}

// NewLayout resolves the policy and partitions the source.
func NewLayout(srcWidth, srcHeight int, policy SizePolicy, glyphs *GlyphLibrary) (*Layout, error) {
	cols, rows, err := Dimensions(srcWidth, srcHeight, policy, glyphs)
	if err != nil {
		return nil, err
	}
	return &Layout{
		SrcWidth:  srcWidth,
		SrcHeight: srcHeight,
		Cols:      cols,
		Rows:      rows,
		ColSpans:  partition(srcWidth, cols),
		RowSpans:  partition(srcHeight, rows),
	}, nil
}

// partition splits [0, total) into n consecutive spans. Boundaries are
// floor(i*total/n), so spans never overlap or leave gaps. When n exceeds
// total some spans are empty.
func partition(total, n int) []Span {
	spans := make([]Span, n)
	for i := range spans {
		spans[i] = Span{Start: i * total / n, End: (i + 1) * total / n}
	}
	return spans
}

// Region returns the source rectangle for cell (col, row). It is the
// pixel-snapped span where that span is non-empty, and the fractional
// interval otherwise, so upscaled cells still land on a source pixel.
func (l *Layout) Region(col, row int) Region {
	x0, x1 := snapOrFraction(l.ColSpans[col], col, l.SrcWidth, l.Cols)
	y0, y1 := snapOrFraction(l.RowSpans[row], row, l.SrcHeight, l.Rows)
	return Region{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func snapOrFraction(s Span, i, total, n int) (float64, float64) {
	if s.Len() > 0 {
		return float64(s.Start), float64(s.End)
	}
	step := float64(total) / float64(n)
	return float64(i) * step, float64(i+1) * step
}

// matches reports whether the layout was resolved for this source size.
func (l *Layout) matches(srcWidth, srcHeight int) bool {
	return l.SrcWidth == srcWidth && l.SrcHeight == srcHeight
}
