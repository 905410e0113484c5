package imageutil

import (
	"image"
	"image/color"
	"image/gif"
	"math"

	"github.com/wbrown/ansify"
)

// CreateGradientFrame creates a horizontal gray gradient test frame.
func CreateGradientFrame(width, height int) *ansify.Frame {
	f := ansify.NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(1, width-1))
			f.Set(x, y, ansify.RGB{R: v, G: v, B: v})
		}
	}
	return f
}

// CreateCheckerboardFrame creates a black and white checkerboard.
func CreateCheckerboardFrame(width, height, squareSize int) *ansify.Frame {
	f := ansify.NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				f.Set(x, y, ansify.RGB{R: 255, G: 255, B: 255})
			}
		}
	}
	return f
}

// CreateSolidFrame creates a solid color frame.
func CreateSolidFrame(width, height int, c ansify.RGB) *ansify.Frame {
	f := ansify.NewFrame(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Set(x, y, c)
		}
	}
	return f
}

// CreateColorBarsFrame creates a color bars test pattern.
func CreateColorBarsFrame(width, height int) *ansify.Frame {
	f := ansify.NewFrame(width, height)
	colors := []ansify.RGB{
		{R: 255, G: 255, B: 255}, // White
		{R: 255, G: 255, B: 0},   // Yellow
		{R: 0, G: 255, B: 255},   // Cyan
		{R: 0, G: 255, B: 0},     // Green
		{R: 255, G: 0, B: 255},   // Magenta
		{R: 255, G: 0, B: 0},     // Red
		{R: 0, G: 0, B: 255},     // Blue
		{R: 0, G: 0, B: 0},       // Black
	}

	barWidth := max(1, width/len(colors))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			f.Set(x, y, colors[colorIdx])
		}
	}
	return f
}

// CreateMovingSquareGIF creates an animation of a white square moving
// right across a black canvas, one partial frame per step.
func CreateMovingSquareGIF(width, height, size, frames, delay int) *gif.GIF {
	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{Config: image.Config{Width: width, Height: height, ColorModel: pal}}
	for i := 0; i < frames; i++ {
		p := image.NewPaletted(image.Rect(0, 0, width, height), pal)
		x := i * size % max(1, width-size+1)
		for y := 0; y < size && y < height; y++ {
			for dx := 0; dx < size && x+dx < width; dx++ {
				p.SetColorIndex(x+dx, y, 1)
			}
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	return g
}

// CalculateMSE calculates the mean squared error between two frames.
func CalculateMSE(a, b *ansify.Frame) float64 {
	if a.Width != b.Width || a.Height != b.Height {
		return math.MaxFloat64
	}
	if len(a.Pix) == 0 {
		return 0
	}
	var sumSq float64
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		sumSq += d * d
	}
	return sumSq / float64(len(a.Pix))
}
