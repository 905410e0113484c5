package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wbrown/ansify"
	"github.com/wbrown/ansify/imageutil"
	"github.com/wbrown/ansify/internal/logger"
	"github.com/wbrown/ansify/render"
)

// defaultFrameDelay stands in for a zero frame delay during terminal
// playback, as browsers do. Written GIFs keep the declared delay.
const defaultFrameDelay = 100 * time.Millisecond

// runGIF converts every frame of an animated GIF. With -o the result is
// written as an animated GIF; otherwise it plays in the terminal until a
// key is pressed.
func runGIF(ctx context.Context, opts *options, args []string) error {
	fs := flag.NewFlagSet("gif", flag.ExitOnError)
	output := fs.String("o", "", "Output GIF; plays in the terminal when empty")
	scale := fs.Int("scale", 4, "Pixels per glyph bit in GIF output")
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
	frames, err := imageutil.LoadGIF(input)
	if err != nil {
		return err
	}
	grids, err := conv.CollectSequence(ctx, ansify.NewSliceSequence(frames))
	if err != nil {
		return err
	}
	log.Info("converted gif",
		zap.String("input", input),
		zap.Int("frames", len(grids)),
		zap.Duration("elapsed", time.Since(begin)))

	palette, glyphs := conv.Encoder().Palette(), conv.Encoder().Glyphs()
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := render.WriteGIF(f, grids, palette, glyphs, *scale); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	screen, err := render.NewScreen(palette, glyphs, opts.colorMode())
	if err != nil {
		return err
	}
	defer screen.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan *ansify.Grid)
	go play(ctx, grids, ch)
	screen.Run(ctx, ch)
	return nil
}

// play sends grids to ch on their delays, looping until ctx is done.
// Frames without a delay are shown for defaultFrameDelay.
func play(ctx context.Context, grids []ansify.TimedGrid, ch chan<- *ansify.Grid) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	for {
		for _, g := range grids {
			select {
			case ch <- g.Grid:
			case <-ctx.Done():
				return
			}
			timer.Reset(playbackDelay(g.Delay))
			select {
			case <-timer.C:
			case <-ctx.Done():
				return
			}
		}
	}
}

func playbackDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultFrameDelay
	}
	return d
}
