package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wbrown/ansify"
	"github.com/wbrown/ansify/internal/logger"
)

// runGlyphs rasterizes characters of a TrueType font into a YAML glyph
// library that -blocks can load.
func runGlyphs(ctx context.Context, _ *options, args []string) error {
	fs := flag.NewFlagSet("glyphs", flag.ExitOnError)
	fontPath := fs.String("font", "", "TrueType font to rasterize (required)")
	output := fs.String("o", "", "Output YAML file (required)")
	width := fs.Int("gw", ansify.FontGlyphWidth, "Glyph bit-grid width")
	height := fs.Int("gh", ansify.FontGlyphHeight, "Glyph bit-grid height")
	chars := fs.String("chars", string(ansify.BlockRunes), "Characters to rasterize")
	fs.Parse(args)
	if *fontPath == "" || *output == "" {
		fs.Usage()
		return errUsage
	}

	ttf, err := os.ReadFile(*fontPath)
	if err != nil {
		return fmt.Errorf("failed to read font: %w", err)
	}
	lib, err := ansify.GlyphsFromFont(ttf, []rune(*chars), *width, *height)
	if err != nil {
		return err
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := ansify.WriteGlyphLibrary(f, lib); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.L(ctx).Info("wrote glyph library",
		zap.String("font", lib.Name()),
		zap.Int("glyphs", lib.Len()),
		zap.String("output", *output))
	return nil
}
