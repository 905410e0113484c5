package ansify

import (
	"fmt"
	"image"
	"time"
)

// Frame is a rectangular RGB pixel buffer. Pix holds Width*Height
// pixels, three bytes each, row-major with no padding.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame of the given size.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// FrameFromRGB wraps a packed RGB24 buffer such as a camera delivers. The
// buffer is used as is, not copied.
func FrameFromRGB(width, height int, pix []uint8) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame size %dx%d: %w", width, height, ErrDecode)
	}
	if len(pix) < width*height*3 {
		return nil, fmt.Errorf("frame buffer has %d bytes, want %d: %w",
			len(pix), width*height*3, ErrDecode)
	}
	return &Frame{Width: width, Height: height, Pix: pix[:width*height*3]}, nil
}

// FrameFromImage copies an image into a new frame. Translucent pixels
// are composited over black.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < f.Height; y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:]
			dst := f.Pix[y*f.Width*3:]
			for x := 0; x < f.Width; x++ {
				dst[x*3] = row[x*4]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
	default:
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*f.Width + x) * 3
				f.Pix[i] = uint8(r >> 8)
				f.Pix[i+1] = uint8(g >> 8)
				f.Pix[i+2] = uint8(bl >> 8)
			}
		}
	}
	return f
}

// At returns the pixel at (x, y), clamping coordinates to the frame.
func (f *Frame) At(x, y int) RGB {
	if x < 0 {
		x = 0
	} else if x >= f.Width {
		x = f.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.Height {
		y = f.Height - 1
	}
	i := (y*f.Width + x) * 3
	return RGB{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2]}
}

// Set writes the pixel at (x, y). Out of range writes are ignored.
func (f *Frame) Set(x, y int, c RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.R, c.G, c.B
}

// TimedFrame is one frame of an animation together with how long it is
// displayed.
type TimedFrame struct {
	Frame *Frame
	Delay time.Duration
}
