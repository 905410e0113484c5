package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/wbrown/ansify"
)

// GIFRecorder collects rendered grids into an animated GIF that loops
// forever. The palette is the GIF's color table when it has at most 256
// entries; larger palettes are mapped onto the Plan 9 palette.
//
// image/gif only encodes whole animations, so frames are held in memory
// until Close. WithFrameLimit bounds that for open-ended recordings.
type GIFRecorder struct {
	w       io.Writer
	palette *ansify.Palette
	glyphs  *ansify.GlyphLibrary
	scale   int
	limit   int
	anim    gif.GIF
}

// GIFOption configures a GIFRecorder.
type GIFOption func(*GIFRecorder)

// WithFrameLimit stops recording after n frames. Zero or less means no
// limit.
func WithFrameLimit(n int) GIFOption {
	return func(r *GIFRecorder) {
		r.limit = max(n, 0)
	}
}

// NewGIFRecorder starts a recording that is written to w by Close.
func NewGIFRecorder(w io.Writer, palette *ansify.Palette, glyphs *ansify.GlyphLibrary, scale int, opts ...GIFOption) *GIFRecorder {
	r := &GIFRecorder{
		w:       w,
		palette: palette,
		glyphs:  glyphs,
		scale:   scale,
		anim:    gif.GIF{LoopCount: 0},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Full reports whether the frame limit has been reached.
func (r *GIFRecorder) Full() bool {
	return r.limit > 0 && len(r.anim.Image) >= r.limit
}

// Add appends grid, displayed for delay, and reports whether it was
// recorded. Once the recorder is full further grids are ignored. GIF
// delays have a resolution of 10ms; delay is rounded to it.
func (r *GIFRecorder) Add(grid *ansify.Grid, delay time.Duration) bool {
	if r.Full() {
		return false
	}
	img, ok := Paletted(grid, r.palette, r.glyphs, r.scale)
	if !ok {
		src := Raster(grid, r.palette, r.glyphs, r.scale)
		img = image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.Draw(img, img.Bounds(), src, image.Point{}, draw.Src)
	}
	r.anim.Image = append(r.anim.Image, img)
	r.anim.Delay = append(r.anim.Delay, gifDelay(delay))
	return true
}

// Len returns the number of frames recorded so far.
func (r *GIFRecorder) Len() int { return len(r.anim.Image) }

// Close encodes the recorded frames.
func (r *GIFRecorder) Close() error {
	if len(r.anim.Image) == 0 {
		return fmt.Errorf("no frames recorded: %w", ansify.ErrInvalidDimensions)
	}
	if err := gif.EncodeAll(r.w, &r.anim); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

// WriteGIF writes grids as an animated GIF with their delays.
func WriteGIF(w io.Writer, grids []ansify.TimedGrid, palette *ansify.Palette, glyphs *ansify.GlyphLibrary, scale int) error {
	rec := NewGIFRecorder(w, palette, glyphs, scale)
	for _, g := range grids {
		rec.Add(g.Grid, g.Delay)
	}
	return rec.Close()
}

func gifDelay(d time.Duration) int {
	return int((d + 5*time.Millisecond) / (10 * time.Millisecond))
}
