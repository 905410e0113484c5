package ansify

import "errors"

// Sentinel errors. Every error returned by this package and its
// collaborators wraps one of these, so callers can test with errors.Is.
var (
	// ErrInvalidConfig reports an empty or malformed Palette or
	// GlyphLibrary. It is always raised before any conversion starts.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidDimensions reports a computed grid size of zero.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrDecode reports a failure to decode a source image or frame.
	ErrDecode = errors.New("decode error")

	// ErrCapture reports a capture device or IO failure.
	ErrCapture = errors.New("capture error")
)
