package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wbrown/ansify"
	"github.com/wbrown/ansify/capture"
	"github.com/wbrown/ansify/internal/logger"
	"github.com/wbrown/ansify/render"
)

// runWebcam shows live converted video until a key is pressed or the
// process is interrupted. With -o the converted frames are also recorded
// as an animated GIF, each frame lasting until the next one arrived.
// Recorded frames are held in memory until the end, so -max-frames caps
// the recording.
func runWebcam(ctx context.Context, opts *options, args []string) error {
	fs := flag.NewFlagSet("webcam", flag.ExitOnError)
	device := fs.String("device", "0", "Camera index, video file or stream URL")
	output := fs.String("o", "", "Record the converted video to this GIF")
	scale := fs.Int("scale", 2, "Pixels per glyph bit in the recording")
	maxFrames := fs.Int("max-frames", 1800, "Stop recording after this many frames, 0 for no limit")
	fs.Parse(args)
	log := logger.L(ctx)

	conv, err := opts.setup(ctx)
	if err != nil {
		return err
	}
	palette, glyphs := conv.Encoder().Palette(), conv.Encoder().Glyphs()

	cam, err := capture.Open(*device)
	if err != nil {
		return err
	}
	defer cam.Close()

	screen, err := render.NewScreen(palette, glyphs, opts.colorMode())
	if err != nil {
		return err
	}
	defer screen.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream := conv.ConvertStream(ctx, cam)

	grids := stream.Grids()
	var rec *render.GIFRecorder
	var out *os.File
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			stream.Stop()
			return fmt.Errorf("failed to create file: %w", err)
		}
		rec = render.NewGIFRecorder(out, palette, glyphs, *scale, render.WithFrameLimit(*maxFrames))
		grids = record(grids, rec)
	}

	screen.Run(ctx, grids)
	stream.Stop()
	for range grids {
		// drain so the recorder sees the end of the stream
	}

	stats := stream.Stats()
	log.Info("stream ended",
		zap.Int64("captured", stats.Captured),
		zap.Int64("converted", stats.Converted),
		zap.Int64("dropped", stats.Dropped))

	if rec != nil {
		log.Info("writing recording",
			zap.String("output", *output),
			zap.Int("frames", rec.Len()),
			zap.Bool("truncated", rec.Full()))
		if err := rec.Close(); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}
	return stream.Err()
}

// record passes grids through while adding each one to rec with the
// time it stayed current as its delay.
func record(in <-chan *ansify.Grid, rec *render.GIFRecorder) <-chan *ansify.Grid {
	out := make(chan *ansify.Grid)
	go func() {
		defer close(out)
		var last *ansify.Grid
		var since time.Time
		for g := range in {
			now := time.Now()
			if last != nil {
				rec.Add(last, now.Sub(since))
			}
			last, since = g, now
			out <- g
		}
		if last != nil {
			rec.Add(last, time.Since(since))
		}
	}()
	return out
}
