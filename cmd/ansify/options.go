package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wbrown/ansify"
	"github.com/wbrown/ansify/internal/logger"
	"github.com/wbrown/ansify/render"
)

// tableInMemory as the -table value builds the lookup table at start-up
// instead of reading one from disk.
const tableInMemory = "memory"

// options are the conversion settings shared by every command.
type options struct {
	palette   string
	table     string
	blocks    string
	width     int
	height    int
	fit       bool
	samples   int
	workers   int
	cache     int
	aspect    float64
	trueColor bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.palette, "palette", "ansi256",
		"Palette: ansi16, ansi256, grayN, or a YAML/JSON palette file")
	fs.StringVar(&o.table, "table", "",
		"Lookup table for the palette: a file from the table command, or \""+tableInMemory+"\" to compute it at start-up")
	fs.StringVar(&o.blocks, "blocks", "quadrants",
		"Glyphs: quadrants, halves, full, a YAML glyph file, or a .ttf font")
	fs.IntVar(&o.width, "width", 0, "Output width in characters")
	fs.IntVar(&o.height, "height", 0, "Output height in characters")
	fs.BoolVar(&o.fit, "fit", false,
		"Fit the output to the terminal when no width or height is given")
	fs.IntVar(&o.samples, "samples", ansify.DefaultSamples,
		"Sample points per axis for each sub-cell")
	fs.IntVar(&o.workers, "workers", 0, "Conversion workers, 0 for one per CPU")
	fs.IntVar(&o.cache, "cache", 0, "Cell cache entries, 0 to disable")
	fs.Float64Var(&o.aspect, "aspect", 0,
		"Aspect correction (cell height/width ratio fix), 0 for the glyph default")
	fs.BoolVar(&o.trueColor, "truecolor", false, "Write 24-bit color codes")
}

func (o *options) colorMode() render.ColorMode {
	if o.trueColor {
		return render.TrueColor
	}
	return render.Indexed
}

// loadPalette loads the palette and, when given, its lookup table.
func (o *options) loadPalette() (*ansify.Palette, error) {
	p, err := ansify.LoadPalette(o.palette)
	if err != nil {
		return nil, err
	}
	switch o.table {
	case "":
		return p, nil
	case tableInMemory:
		return p.WithTable(), nil
	}
	f, err := os.Open(o.table)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()
	return p.ReadTable(f)
}

func (o *options) loadGlyphs() (*ansify.GlyphLibrary, error) {
	g, err := ansify.LoadGlyphLibrary(o.blocks)
	if err != nil {
		return nil, err
	}
	if o.aspect != 0 {
		return g.WithAspectCorrection(o.aspect)
	}
	return g, nil
}

// sizePolicy resolves the requested output size, falling back to the
// terminal width with -fit.
func (o *options) sizePolicy(ctx context.Context) ansify.SizePolicy {
	policy := ansify.SizePolicy{Width: o.width, Height: o.height}
	if o.fit && policy.Width == 0 && policy.Height == 0 {
		cols, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			logger.L(ctx).Warn("terminal size unavailable", zap.Error(err))
			return policy
		}
		policy.Width = cols
	}
	return policy
}

// setup builds the converter for a command.
func (o *options) setup(ctx context.Context) (*ansify.Converter, error) {
	palette, err := o.loadPalette()
	if err != nil {
		return nil, err
	}
	glyphs, err := o.loadGlyphs()
	if err != nil {
		return nil, err
	}

	encOpts := []ansify.EncoderOption{ansify.WithSamples(o.samples)}
	if o.cache > 0 {
		encOpts = append(encOpts, ansify.WithCache(o.cache))
	}
	conv, err := ansify.NewConverter(palette, glyphs,
		ansify.WithSize(o.sizePolicy(ctx)),
		ansify.WithWorkers(o.workers),
		ansify.WithEncoderOptions(encOpts...))
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("converter ready",
		zap.String("palette", palette.Name()),
		zap.Int("colors", palette.Len()),
		zap.Bool("table", palette.HasTable()),
		zap.String("glyphs", glyphs.Name()),
		zap.Int("glyphCount", glyphs.Len()),
		zap.Float64("aspect", glyphs.AspectCorrection()))
	return conv, nil
}
