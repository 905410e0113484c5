package imageutil

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/wbrown/ansify"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest, and keeps hard cell edges when enlarging rendered art.
	InterpolationNearest
)

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// ResizeImage scales img to width x height.
func ResizeImage(img image.Image, width, height int, interp Interpolation) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Resize scales a frame to width x height.
func Resize(f *ansify.Frame, width, height int, interp Interpolation) *ansify.Frame {
	if width == f.Width && height == f.Height {
		return f
	}
	return ansify.FrameFromImage(ResizeImage(FrameImage(f), width, height, interp))
}
