package ansify

import (
	"fmt"
	"math"
)

// DefaultSamples is the default number of sample points per axis taken
// inside each sub-cell.
const DefaultSamples = 2

const epsilon = 1e-9 // For floating-point score comparisons

// CellEncoder reduces one source region to a Cell. For every glyph it
// splits the region's sub-cells into a foreground set (mask bit set) and
// a background set, averages each set, and scores the glyph by the
// squared error of every sub-cell against its set's average. The best
// glyph's averages are then quantized to the palette.
//
// A CellEncoder is safe for concurrent use.
type CellEncoder struct {
	palette *Palette
	glyphs  *GlyphLibrary
	samples int
	cache   *cellCache
}

// EncoderOption configures a CellEncoder.
type EncoderOption func(*CellEncoder)

// WithSamples sets the number of sample points per axis averaged into
// each sub-cell color. n*n points are taken on a regular interior grid.
// Values below 1 are ignored.
func WithSamples(n int) EncoderOption {
	return func(e *CellEncoder) {
		if n >= 1 {
			e.samples = n
		}
	}
}

// WithCache memoizes results keyed on the exact sampled sub-cell colors,
// holding at most maxEntries results. Zero disables the cache.
func WithCache(maxEntries int) EncoderOption {
	return func(e *CellEncoder) {
		if maxEntries > 0 {
			e.cache = newCellCache(maxEntries)
		} else {
			e.cache = nil
		}
	}
}

// NewCellEncoder creates an encoder for the given palette and glyphs.
func NewCellEncoder(palette *Palette, glyphs *GlyphLibrary, opts ...EncoderOption) (*CellEncoder, error) {
	if palette == nil {
		return nil, fmt.Errorf("no palette: %w", ErrInvalidConfig)
	}
	if glyphs == nil {
		return nil, fmt.Errorf("no glyph library: %w", ErrInvalidConfig)
	}
	e := &CellEncoder{
		palette: palette,
		glyphs:  glyphs,
		samples: DefaultSamples,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Palette returns the encoder's palette.
func (e *CellEncoder) Palette() *Palette { return e.palette }

// Glyphs returns the encoder's glyph library.
func (e *CellEncoder) Glyphs() *GlyphLibrary { return e.glyphs }

// Encode converts region r of frame f into a Cell. It is total: regions
// smaller than the glyph grid, or lying partly outside the frame, are
// sampled from the nearest clamped pixels.
func (e *CellEncoder) Encode(f *Frame, r Region) Cell {
	subs := make([]RGB, e.glyphs.width*e.glyphs.height)
	return e.encode(f, r, subs)
}

// encode is Encode with a caller-provided sub-cell buffer, so workers
// can reuse one allocation per band.
func (e *CellEncoder) encode(f *Frame, r Region, subs []RGB) Cell {
	e.sample(f, r, subs)

	if e.cache != nil {
		key := cacheKey(subs)
		if cell, ok := e.cache.getEntry(key); ok {
			return cell
		}
		cell := e.bestCell(subs)
		e.cache.addEntry(key, cell)
		return cell
	}
	return e.bestCell(subs)
}

// sample fills subs with one averaged color per sub-cell. Each sub-cell
// is a cw x ch division of the region; samples*samples points are taken
// at the centers of a regular grid inside it.
func (e *CellEncoder) sample(f *Frame, r Region, subs []RGB) {
	cw, ch := e.glyphs.width, e.glyphs.height
	k := e.samples
	subW := (r.X1 - r.X0) / float64(cw)
	subH := (r.Y1 - r.Y0) / float64(ch)

	for sy := 0; sy < ch; sy++ {
		for sx := 0; sx < cw; sx++ {
			var acc meanRGB
			for j := 0; j < k; j++ {
				py := r.Y0 + (float64(sy)+(float64(j)+0.5)/float64(k))*subH
				for i := 0; i < k; i++ {
					px := r.X0 + (float64(sx)+(float64(i)+0.5)/float64(k))*subW
					acc.add(f.At(int(math.Floor(px)), int(math.Floor(py))))
				}
			}
			subs[sy*cw+sx] = rgbFromFloat(acc.mean())
		}
	}
}

// bestCell scores every glyph against the sampled sub-cells.
//
// For a set with n samples, sum S and sum of squares Q, the squared error
// against its own mean is Q - |S|^2/n. Q over both sets is the same for
// every glyph, so minimizing the error is maximizing
// |Sf|^2/nf + |Sb|^2/nb.
func (e *CellEncoder) bestCell(subs []RGB) Cell {
	var total meanRGB
	var sumSq float64
	for _, c := range subs {
		total.add(c)
		sumSq += float64(int(c.R)*int(c.R) + int(c.G)*int(c.G) + int(c.B)*int(c.B))
	}

	bestGlyph := 0
	bestScore := math.MaxFloat64
	var bestFg, bestBg meanRGB

	for gi, bits := range e.glyphs.fgBits {
		var fg meanRGB
		for _, pos := range bits {
			fg.add(subs[pos])
		}
		bg := meanRGB{r: total.r - fg.r, g: total.g - fg.g, b: total.b - fg.b, n: total.n - fg.n}

		score := sumSq - explained(fg) - explained(bg)
		if score < bestScore-epsilon*math.Max(1, math.Abs(bestScore)) {
			bestScore = score
			bestGlyph = gi
			bestFg, bestBg = fg, bg
		}
	}

	// An empty side has no samples to average; it takes the region-wide
	// average instead.
	if bestFg.n == 0 {
		bestFg = total
	}
	if bestBg.n == 0 {
		bestBg = total
	}

	return Cell{
		FG:    e.palette.Nearest(rgbFromFloat(bestFg.mean())),
		BG:    e.palette.Nearest(rgbFromFloat(bestBg.mean())),
		Glyph: bestGlyph,
	}
}

// explained returns |S|^2/n for a set, zero for an empty set.
func explained(m meanRGB) float64 {
	if m.n == 0 {
		return 0
	}
	return (m.r*m.r + m.g*m.g + m.b*m.b) / float64(m.n)
}
