package ansify

import (
	"fmt"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255.
type RGB struct {
	R, G, B uint8
}

// String formats the color as #rrggbb.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// toUint32 packs the color into the low 24 bits of a uint32.
func (c RGB) toUint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// rgbFromUint32 unpacks a color packed by toUint32.
func rgbFromUint32(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// RGBA converts the color to an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// distanceSq returns the squared Euclidean distance between two colors.
func (c RGB) distanceSq(other RGB) int {
	dr := int(c.R) - int(other.R)
	dg := int(c.G) - int(other.G)
	db := int(c.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}

// component returns the channel selected by axis (0=R, 1=G, 2=B).
func (c RGB) component(axis int) uint8 {
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// meanRGB accumulates colors as float sums so averages can be taken
// without intermediate rounding.
type meanRGB struct {
	r, g, b float64
	n       int
}

func (m *meanRGB) add(c RGB) {
	m.r += float64(c.R)
	m.g += float64(c.G)
	m.b += float64(c.B)
	m.n++
}

// mean returns the average as a float triple. The zero accumulator
// averages to black.
func (m meanRGB) mean() [3]float64 {
	if m.n == 0 {
		return [3]float64{}
	}
	n := float64(m.n)
	return [3]float64{m.r / n, m.g / n, m.b / n}
}

// rgbFromFloat rounds and clamps a float triple into an RGB color.
func rgbFromFloat(v [3]float64) RGB {
	return RGB{R: clampChannel(v[0]), G: clampChannel(v[1]), B: clampChannel(v[2])}
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
