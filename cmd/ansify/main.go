// Command ansify converts images, animated GIFs and webcam video into
// ANSI block art.
//
//	ansify [flags] image [-o out.png|out.gif|out.ans] [-show] input
//	ansify [flags] gif [-o out.gif] input.gif
//	ansify [flags] webcam [-device 0] [-o recording.gif]
//	ansify [flags] table -o ansi256.table
//	ansify glyphs -font font.ttf -o glyphs.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wbrown/ansify/internal/logger"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, opts *options, args []string) error
}

var commands = []command{
	{"image", "convert a still image", runImage},
	{"gif", "convert an animated GIF", runGIF},
	{"webcam", "convert live video from a camera", runWebcam},
	{"table", "precompute a palette lookup table", runTable},
	{"glyphs", "rasterize font characters into a glyph library", runGlyphs},
}

func main() {
	opts := &options{}
	opts.register(flag.CommandLine)
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == flag.Arg(0) {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "ansify: unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, l.With(zap.String("command", cmd.name)))

	if err := cmd.run(ctx, opts, flag.Args()[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		l.Sync() //nolint:errcheck
		fmt.Fprintf(os.Stderr, "ansify %s: %v\n", cmd.name, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: ansify [flags] <command> [command flags] [input]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(os.Stderr, "\nflags:\n")
	flag.PrintDefaults()
}
