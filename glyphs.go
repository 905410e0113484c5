package ansify

import (
	"fmt"
)

// Glyph is a block character and its coverage mask. Mask is row-major,
// Width*Height entries; true marks a foreground-covered sub-cell.
type Glyph struct {
	Rune rune
	Mask []bool
}

// Coverage returns the fraction of the mask that is foreground.
func (g Glyph) Coverage() float64 {
	if len(g.Mask) == 0 {
		return 0
	}
	n := 0
	for _, bit := range g.Mask {
		if bit {
			n++
		}
	}
	return float64(n) / float64(len(g.Mask))
}

// GlyphLibrary is an ordered set of glyphs sharing one bit-grid size,
// the "character dimensions" used to sub-sample each output cell.
//
// Like Palette, a GlyphLibrary is immutable once built and safe for
// concurrent use.
type GlyphLibrary struct {
	name   string
	width  int
	height int
	glyphs []Glyph
	aspect float64

	// fgBits caches the foreground sub-cell positions of each glyph.
	fgBits [][]int
}

// NewGlyphLibrary validates and builds a glyph library. It fails with
// ErrInvalidConfig when the library is empty, the dimensions are not
// positive, or any mask does not hold exactly width*height bits.
func NewGlyphLibrary(width, height int, glyphs []Glyph) (*GlyphLibrary, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("glyph dimensions %dx%d: %w", width, height, ErrInvalidConfig)
	}
	if len(glyphs) == 0 {
		return nil, fmt.Errorf("glyph library is empty: %w", ErrInvalidConfig)
	}

	lib := &GlyphLibrary{
		width:  width,
		height: height,
		glyphs: make([]Glyph, len(glyphs)),
		fgBits: make([][]int, len(glyphs)),
		aspect: float64(width) / float64(height),
	}
	for i, g := range glyphs {
		if len(g.Mask) != width*height {
			return nil, fmt.Errorf("glyph %d (%q) has %d bits, want %dx%d: %w",
				i, g.Rune, len(g.Mask), width, height, ErrInvalidConfig)
		}
		lib.glyphs[i] = Glyph{Rune: g.Rune, Mask: append([]bool(nil), g.Mask...)}
		for pos, bit := range g.Mask {
			if bit {
				lib.fgBits[i] = append(lib.fgBits[i], pos)
			}
		}
	}
	return lib, nil
}

func mustGlyphLibrary(name string, width, height int, glyphs []Glyph) *GlyphLibrary {
	lib, err := NewGlyphLibrary(width, height, glyphs)
	if err != nil {
		panic(err)
	}
	lib.name = name
	return lib
}

// Name returns the library's name, empty for libraries built from raw
// glyphs.
func (l *GlyphLibrary) Name() string { return l.name }

// Width returns the bit-grid width shared by every glyph.
func (l *GlyphLibrary) Width() int { return l.width }

// Height returns the bit-grid height shared by every glyph.
func (l *GlyphLibrary) Height() int { return l.height }

// Len returns the number of glyphs.
func (l *GlyphLibrary) Len() int { return len(l.glyphs) }

// Glyph returns the glyph at index i.
func (l *GlyphLibrary) Glyph(i int) Glyph { return l.glyphs[i] }

// Rune returns the character of glyph i.
func (l *GlyphLibrary) Rune(i int) rune { return l.glyphs[i].Rune }

// Covered reports whether sub-cell (x, y) of glyph i is foreground.
func (l *GlyphLibrary) Covered(i, x, y int) bool {
	return l.glyphs[i].Mask[y*l.width+x]
}

// AspectCorrection is the factor applied to the source aspect ratio when
// only one output dimension is requested. It defaults to the bit-grid
// ratio width/height.
func (l *GlyphLibrary) AspectCorrection() float64 { return l.aspect }

// WithAspectCorrection returns a copy of the library using the given
// correction. Non-positive values are rejected with ErrInvalidConfig.
func (l *GlyphLibrary) WithAspectCorrection(f float64) (*GlyphLibrary, error) {
	if !(f > 0) {
		return nil, fmt.Errorf("aspect correction %v: %w", f, ErrInvalidConfig)
	}
	c := *l
	c.aspect = f
	return &c, nil
}

// quadrants lists the 2x2 block characters. Array index bits encode
// coverage: bit 3 top-left, bit 2 top-right, bit 1 bottom-left, bit 0
// bottom-right.
var quadrants = [16]rune{
	' ', // 0000: Empty space
	'▗', // 0001: Quadrant lower right
	'▖', // 0010: Quadrant lower left
	'▄', // 0011: Lower half block
	'▝', // 0100: Quadrant upper right
	'▐', // 0101: Right half block
	'▞', // 0110: Diagonal upper right and lower left
	'▟', // 0111: Three quadrants: upper right, lower left, lower right
	'▘', // 1000: Quadrant upper left
	'▚', // 1001: Diagonal upper left and lower right
	'▌', // 1010: Left half block
	'▙', // 1011: Three quadrants: upper left, lower left, lower right
	'▀', // 1100: Upper half block
	'▜', // 1101: Three quadrants: upper left, upper right, lower right
	'▛', // 1110: Three quadrants: upper left, upper right, lower left
	'█', // 1111: Full block
}

// QuadrantBlocks returns the 16 quadrant block characters on a 2x2 grid.
func QuadrantBlocks() *GlyphLibrary {
	glyphs := make([]Glyph, len(quadrants))
	for i, r := range quadrants {
		glyphs[i] = Glyph{
			Rune: r,
			Mask: []bool{i&8 != 0, i&4 != 0, i&2 != 0, i&1 != 0},
		}
	}
	return mustGlyphLibrary("quadrants", 2, 2, glyphs)
}

// HalfBlocks returns space, upper half, lower half and full block on a
// 1x2 grid.
func HalfBlocks() *GlyphLibrary {
	return mustGlyphLibrary("halves", 1, 2, []Glyph{
		{Rune: ' ', Mask: []bool{false, false}},
		{Rune: '▀', Mask: []bool{true, false}},
		{Rune: '▄', Mask: []bool{false, true}},
		{Rune: '█', Mask: []bool{true, true}},
	})
}

// FullBlocks returns space and full block on a 1x1 grid, which reduces
// conversion to plain per-cell color averaging.
func FullBlocks() *GlyphLibrary {
	return mustGlyphLibrary("full", 1, 1, []Glyph{
		{Rune: ' ', Mask: []bool{false}},
		{Rune: '█', Mask: []bool{true}},
	})
}
