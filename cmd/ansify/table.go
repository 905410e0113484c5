package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wbrown/ansify/internal/logger"
)

// runTable precomputes the nearest-color table for the -palette palette
// and writes it for later use with -table.
func runTable(ctx context.Context, opts *options, args []string) error {
	fs := flag.NewFlagSet("table", flag.ExitOnError)
	output := fs.String("o", "", "Output table file (required)")
	fs.Parse(args)
	if *output == "" {
		fs.Usage()
		return errUsage
	}

	p, err := opts.loadPalette()
	if err != nil {
		return err
	}

	begin := time.Now()
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := p.WriteTable(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.L(ctx).Info("wrote palette table",
		zap.String("palette", p.Name()),
		zap.String("output", *output),
		zap.Duration("elapsed", time.Since(begin)))
	return nil
}
