package ansify

import (
	"fmt"
	"math"
)

// maxPaletteSize bounds palettes so indices fit in the uint16 lookup
// table.
const maxPaletteSize = math.MaxUint16

// Palette is an ordered, immutable set of reference colors. Output cell
// colors are quantized to palette indices with Nearest.
//
// A Palette is never mutated after construction and may be shared by
// any number of goroutines without locking.
type Palette struct {
	name   string
	colors []RGB
	tree   *colorNode

	// table, when set, maps every packed 24-bit color to its nearest
	// index. See WithTable.
	table []uint16
}

// NewPalette builds a palette from an ordered list of colors. It fails
// with ErrInvalidConfig when colors is empty.
func NewPalette(colors []RGB) (*Palette, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("palette has no colors: %w", ErrInvalidConfig)
	}
	if len(colors) > maxPaletteSize {
		return nil, fmt.Errorf("palette has %d colors, max %d: %w",
			len(colors), maxPaletteSize, ErrInvalidConfig)
	}

	p := &Palette{colors: append([]RGB(nil), colors...)}
	entries := make([]indexedColor, len(colors))
	for i, c := range colors {
		entries[i] = indexedColor{color: c, index: i}
	}
	p.tree = buildKDTree(entries)
	return p, nil
}

// mustPalette is used for the built-in palettes, which are never empty.
func mustPalette(name string, colors []RGB) *Palette {
	p, err := NewPalette(colors)
	if err != nil {
		panic(err)
	}
	p.name = name
	return p
}

// Name returns the palette's name, empty for palettes built from raw
// colors.
func (p *Palette) Name() string { return p.name }

// Len returns the number of palette entries.
func (p *Palette) Len() int { return len(p.colors) }

// Color returns the color at index i.
func (p *Palette) Color(i int) RGB { return p.colors[i] }

// Colors returns a copy of the palette entries in order.
func (p *Palette) Colors() []RGB {
	return append([]RGB(nil), p.colors...)
}

// Nearest returns the index of the palette entry with the smallest
// squared Euclidean distance to c. Ties resolve to the lowest index.
func (p *Palette) Nearest(c RGB) int {
	if p.table != nil {
		return int(p.table[c.toUint32()])
	}
	idx, _ := p.tree.nearest(c, len(p.colors), math.MaxInt)
	return idx
}

// nearestScan is the exhaustive reference for Nearest.
func (p *Palette) nearestScan(c RGB) int {
	best, bestDist := 0, math.MaxInt
	for i, pc := range p.colors {
		if d := pc.distanceSq(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// WithTable returns a copy of the palette that answers Nearest from a
// precomputed lookup table covering all 2^24 colors.
//
// Note: computing the table walks the KD-tree 16.7 million times. Load a
// persisted table with ReadTable where start-up time matters.
func (p *Palette) WithTable() *Palette {
	q := *p
	q.table = p.computeTable()
	return &q
}

// HasTable reports whether Nearest is served from a lookup table.
func (p *Palette) HasTable() bool { return p.table != nil }

func (p *Palette) computeTable() []uint16 {
	table := make([]uint16, 1<<24)
	for v := uint32(0); v < 1<<24; v++ {
		idx, _ := p.tree.nearest(rgbFromUint32(v), len(p.colors), math.MaxInt)
		table[v] = uint16(idx)
	}
	return table
}

// ANSI16 returns the 16 standard terminal colors in SGR order
// (30-37, then 90-97), using the xterm default values.
func ANSI16() *Palette {
	return mustPalette("ansi16", ansi16Colors())
}

func ansi16Colors() []RGB {
	return []RGB{
		{0x00, 0x00, 0x00}, // black
		{0xcd, 0x00, 0x00}, // red
		{0x00, 0xcd, 0x00}, // green
		{0xcd, 0xcd, 0x00}, // yellow
		{0x00, 0x00, 0xee}, // blue
		{0xcd, 0x00, 0xcd}, // magenta
		{0x00, 0xcd, 0xcd}, // cyan
		{0xe5, 0xe5, 0xe5}, // white
		{0x7f, 0x7f, 0x7f}, // bright black
		{0xff, 0x00, 0x00}, // bright red
		{0x00, 0xff, 0x00}, // bright green
		{0xff, 0xff, 0x00}, // bright yellow
		{0x5c, 0x5c, 0xff}, // bright blue
		{0xff, 0x00, 0xff}, // bright magenta
		{0x00, 0xff, 0xff}, // bright cyan
		{0xff, 0xff, 0xff}, // bright white
	}
}

// ANSI256 returns the xterm 256-color palette: the 16 system colors,
// the 6x6x6 color cube and the 24-step gray ramp. Palette index equals
// the 38;5;N code.
func ANSI256() *Palette {
	colors := ansi16Colors()
	steps := [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				colors = append(colors, RGB{steps[r], steps[g], steps[b]})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		colors = append(colors, RGB{v, v, v})
	}
	return mustPalette("ansi256", colors)
}

// Grayscale returns an evenly spaced gray ramp of n entries from black
// to white. n below 2 yields black and white.
func Grayscale(n int) *Palette {
	if n < 2 {
		n = 2
	}
	colors := make([]RGB, n)
	for i := range colors {
		v := uint8(math.Round(float64(i) * 255 / float64(n-1)))
		colors[i] = RGB{v, v, v}
	}
	return mustPalette(fmt.Sprintf("gray%d", n), colors)
}
