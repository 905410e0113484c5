package ansify

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wbrown/ansify/internal/logger"
)

// Converter tiles whole frames into grids of cells. It resolves the size
// policy once per source size and reuses the resulting Layout for every
// frame of that size.
//
// Palette, glyphs and encoder are read-only during conversion, so one
// Converter may convert several frames concurrently.
type Converter struct {
	encoder *CellEncoder
	policy  SizePolicy
	workers int

	encoderOpts []EncoderOption

	mu     sync.Mutex
	layout *Layout
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithSize sets the output size policy.
func WithSize(policy SizePolicy) ConverterOption {
	return func(c *Converter) {
		c.policy = policy
	}
}

// WithWorkers sets how many goroutines encode cells of one frame. The
// default is GOMAXPROCS; values below 1 are ignored.
func WithWorkers(n int) ConverterOption {
	return func(c *Converter) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithEncoderOptions passes options through to the cell encoder.
func WithEncoderOptions(opts ...EncoderOption) ConverterOption {
	return func(c *Converter) {
		c.encoderOpts = append(c.encoderOpts, opts...)
	}
}

// NewConverter creates a converter for the given palette and glyph
// library.
func NewConverter(palette *Palette, glyphs *GlyphLibrary, opts ...ConverterOption) (*Converter, error) {
	c := &Converter{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(c)
	}
	enc, err := NewCellEncoder(palette, glyphs, c.encoderOpts...)
	if err != nil {
		return nil, err
	}
	c.encoder = enc
	return c, nil
}

// Encoder returns the converter's cell encoder.
func (c *Converter) Encoder() *CellEncoder { return c.encoder }

// Policy returns the converter's size policy.
func (c *Converter) Policy() SizePolicy { return c.policy }

// Layout returns the layout for a source size, resolving it on first use
// and whenever the source size changes.
func (c *Converter) Layout(ctx context.Context, srcWidth, srcHeight int) (*Layout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.layout != nil && c.layout.matches(srcWidth, srcHeight) {
		return c.layout, nil
	}
	l, err := NewLayout(srcWidth, srcHeight, c.policy, c.encoder.glyphs)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Debug("resolved layout",
		zap.Int("srcWidth", srcWidth),
		zap.Int("srcHeight", srcHeight),
		zap.Int("cols", l.Cols),
		zap.Int("rows", l.Rows))
	c.layout = l
	return l, nil
}

// Convert converts one frame into a complete grid. On error or
// cancellation no grid is returned.
func (c *Converter) Convert(ctx context.Context, f *Frame) (*Grid, error) {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("empty frame: %w", ErrInvalidDimensions)
	}
	l, err := c.Layout(ctx, f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	return c.ConvertLayout(ctx, f, l)
}

// ConvertLayout converts a frame using an already resolved layout. The
// layout must have been resolved for the frame's size.
func (c *Converter) ConvertLayout(ctx context.Context, f *Frame, l *Layout) (*Grid, error) {
	if !l.matches(f.Width, f.Height) {
		return nil, fmt.Errorf("layout for %dx%d used with %dx%d frame: %w",
			l.SrcWidth, l.SrcHeight, f.Width, f.Height, ErrInvalidDimensions)
	}

	grid := NewGrid(l.Cols, l.Rows)
	cellBits := c.encoder.glyphs.width * c.encoder.glyphs.height

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	// Bands of whole rows; each band writes a disjoint slice of grid.Cells.
	bandRows := (l.Rows + c.workers - 1) / c.workers
	if bandRows < 1 {
		bandRows = 1
	}
	for start := 0; start < l.Rows; start += bandRows {
		start, end := start, min(start+bandRows, l.Rows)
		g.Go(func() error {
			subs := make([]RGB, cellBits)
			for row := start; row < end; row++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				cells := grid.Row(row)
				for col := range cells {
					cells[col] = c.encoder.encode(f, l.Region(col, row), subs)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}
