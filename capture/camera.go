// Package capture reads live frames from cameras and video files
// through OpenCV.
package capture

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"github.com/wbrown/ansify"
)

// Camera is an ansify.FrameSource over an OpenCV video capture. It is
// safe to call Capture and Close from different goroutines.
type Camera struct {
	mu     sync.Mutex
	source string
	vc     *gocv.VideoCapture
	bgr    gocv.Mat
	rgb    gocv.Mat
	closed bool
}

// Option configures a Camera.
type Option func(*gocv.VideoCapture)

// WithResolution asks the device for a capture size. Devices are free
// to pick the closest size they support.
func WithResolution(width, height int) Option {
	return func(vc *gocv.VideoCapture) {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
}

// Open opens a capture source: a device index such as "0", or the path
// or URL of a video. Failures wrap ansify.ErrCapture.
func Open(source string, opts ...Option) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(parseSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v: %w", source, err, ansify.ErrCapture)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("failed to open %s: %w", source, ansify.ErrCapture)
	}
	for _, opt := range opts {
		opt(vc)
	}
	return &Camera{
		source: source,
		vc:     vc,
		bgr:    gocv.NewMat(),
		rgb:    gocv.NewMat(),
	}, nil
}

// parseSource maps numeric sources to device indices.
func parseSource(source string) interface{} {
	if n, err := strconv.Atoi(source); err == nil && n >= 0 {
		return n
	}
	return source
}

// Capture reads the next frame. It blocks until the device delivers one.
// A closed camera, an exhausted video or a failed read wrap
// ansify.ErrCapture.
func (c *Camera) Capture(ctx context.Context) (*ansify.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("%s is closed: %w", c.source, ansify.ErrCapture)
	}
	if ok := c.vc.Read(&c.bgr); !ok || c.bgr.Empty() {
		return nil, fmt.Errorf("no frame from %s: %w", c.source, ansify.ErrCapture)
	}

	// OpenCV delivers BGR
	gocv.CvtColor(c.bgr, &c.rgb, gocv.ColorBGRToRGB)
	return ansify.FrameFromRGB(c.rgb.Cols(), c.rgb.Rows(), c.rgb.ToBytes())
}

// Close releases the device. Later captures fail.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.bgr.Close()
	c.rgb.Close()
	return c.vc.Close()
}
