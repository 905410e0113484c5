package imageutil

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"

	"github.com/wbrown/ansify"
)

// LoadGIF loads every frame of an animated GIF.
func LoadGIF(path string) ([]ansify.TimedFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gif: %v: %w", err, ansify.ErrDecode)
	}
	defer f.Close()

	frames, err := DecodeGIF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

// DecodeGIF decodes an animated GIF into full-canvas frames.
//
// GIF frames are usually partial updates, so each one is drawn onto a
// logical-screen canvas and the canvas is snapshotted. Disposal methods
// are honoured: DisposalBackground clears the frame's rectangle after it
// is shown and DisposalPrevious restores the canvas to its state before
// the frame. Delays are kept exactly as declared, including zero.
func DecodeGIF(r io.Reader) ([]ansify.TimedFrame, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %v: %w", err, ansify.ErrDecode)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames: %w", ansify.ErrDecode)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
		for _, p := range g.Image[1:] {
			bounds = bounds.Union(p.Bounds())
		}
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]ansify.TimedFrame, 0, len(g.Image))
	for i, p := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			copy(previous.Pix, canvas.Pix)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

		var delay time.Duration
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		frames = append(frames, ansify.TimedFrame{
			Frame: ansify.FrameFromImage(canvas),
			Delay: delay,
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames, nil
}
