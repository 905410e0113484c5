package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wbrown/ansify"
	"github.com/wbrown/ansify/imageutil"
	"github.com/wbrown/ansify/internal/logger"
	"github.com/wbrown/ansify/render"
)

var errUsage = errors.New("invalid arguments")

// runImage converts one image. The output kind follows the -o
// extension: .png/.jpg renders the cells as pixels, .gif a single frame
// GIF, anything else ANSI text. Without -o the text goes to stdout.
func runImage(ctx context.Context, opts *options, args []string) error {
	fs := flag.NewFlagSet("image", flag.ExitOnError)
	output := fs.String("o", "", "Output file (.png, .jpg, .gif, or ANSI text)")
	scale := fs.Int("scale", 4, "Pixels per glyph bit in image output")
	show := fs.Bool("show", false, "Show the result full screen until a key is pressed")
	filter := fs.Bool("prefilter", false, "Area-downsample large sources before sampling")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	input := fs.Arg(0)
	log := logger.L(ctx)

	conv, err := opts.setup(ctx)
	if err != nil {
		return err
	}

	begin := time.Now()
	frame, err := imageutil.LoadFrame(input)
	if err != nil {
		return err
	}
	var grid *ansify.Grid
	if *filter {
		grid, err = prefilter(ctx, conv, frame, opts.samples)
	} else {
		grid, err = conv.Convert(ctx, frame)
	}
	if err != nil {
		return err
	}
	log.Info("converted image",
		zap.String("input", input),
		zap.Int("srcWidth", frame.Width),
		zap.Int("srcHeight", frame.Height),
		zap.Int("cols", grid.Cols),
		zap.Int("rows", grid.Rows),
		zap.Duration("elapsed", time.Since(begin)))

	palette, glyphs := conv.Encoder().Palette(), conv.Encoder().Glyphs()
	if err := writeGrid(*output, grid, palette, glyphs, *scale, opts.colorMode()); err != nil {
		return err
	}

	if *show {
		screen, err := render.NewScreen(palette, glyphs, opts.colorMode())
		if err != nil {
			return err
		}
		defer screen.Close()
		screen.Wait(ctx, grid)
	}
	return nil
}

// prefilter converts f after shrinking it so every sub-cell covers
// exactly samples x samples pixels. Point sampling a source far larger
// than the grid aliases; the resize averages every pixel instead. The
// grid size is the one resolved for the original frame.
func prefilter(ctx context.Context, conv *ansify.Converter, f *ansify.Frame, samples int) (*ansify.Grid, error) {
	if samples < 1 {
		samples = ansify.DefaultSamples
	}
	l, err := conv.Layout(ctx, f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	glyphs := conv.Encoder().Glyphs()
	width := l.Cols * glyphs.Width() * samples
	height := l.Rows * glyphs.Height() * samples
	if width >= f.Width || height >= f.Height {
		return conv.ConvertLayout(ctx, f, l)
	}

	small := imageutil.Resize(f, width, height, imageutil.InterpolationArea)
	sl, err := ansify.NewLayout(width, height, ansify.SizePolicy{Width: l.Cols, Height: l.Rows}, glyphs)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Debug("prefiltered source",
		zap.Int("width", width),
		zap.Int("height", height))
	return conv.ConvertLayout(ctx, small, sl)
}

// writeGrid writes one grid to path, choosing the format from its
// extension. An empty path writes ANSI text to stdout.
func writeGrid(path string, grid *ansify.Grid, palette *ansify.Palette, glyphs *ansify.GlyphLibrary,
	scale int, mode render.ColorMode) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return imageutil.SaveImage(render.Raster(grid, palette, glyphs, scale), path)
	case ".gif":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := render.WriteGIF(f, []ansify.TimedGrid{{Grid: grid}}, palette, glyphs, scale); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	enc, err := render.NewANSI(palette, glyphs, mode)
	if err != nil {
		return err
	}
	if path == "" {
		return enc.Write(os.Stdout, grid)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := enc.Write(f, grid); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
