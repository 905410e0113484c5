// Package render turns converted grids into output: ANSI escape text,
// raster images, animated GIFs and a live terminal screen.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wbrown/ansify"
)

const ESC = "\u001b"

// ColorMode selects how palette colors are written as SGR codes.
type ColorMode int

const (
	// Indexed writes palette indices as 256-color codes (38;5;N). The
	// palette must have at most 256 entries and is assumed to match the
	// terminal's, as ansi16 and ansi256 do.
	Indexed ColorMode = iota
	// TrueColor writes each palette color as a 24-bit code (38;2;R;G;B).
	TrueColor
)

// ANSI encodes grids as ANSI escape text, one line per grid row. Runs of
// cells sharing colors share one escape sequence; the foreground of an
// empty glyph and the background of a full glyph are never written since
// they cannot be seen. Every line ends with a reset.
type ANSI struct {
	glyphs *ansify.GlyphLibrary
	fg, bg []string

	// coverage per glyph: -1 empty, 1 full, 0 mixed
	coverage []int
}

// NewANSI prepares an encoder for grids produced with palette and glyphs.
func NewANSI(palette *ansify.Palette, glyphs *ansify.GlyphLibrary, mode ColorMode) (*ANSI, error) {
	if palette == nil || glyphs == nil {
		return nil, fmt.Errorf("ansi encoder needs a palette and glyphs: %w", ansify.ErrInvalidConfig)
	}
	if mode == Indexed && palette.Len() > 256 {
		return nil, fmt.Errorf("indexed output supports 256 colors, palette has %d: %w",
			palette.Len(), ansify.ErrInvalidConfig)
	}

	a := &ANSI{
		glyphs:   glyphs,
		fg:       make([]string, palette.Len()),
		bg:       make([]string, palette.Len()),
		coverage: make([]int, glyphs.Len()),
	}
	for i, c := range palette.Colors() {
		switch mode {
		case TrueColor:
			a.fg[i] = fmt.Sprintf("38;2;%d;%d;%d", c.R, c.G, c.B)
			a.bg[i] = fmt.Sprintf("48;2;%d;%d;%d", c.R, c.G, c.B)
		default:
			a.fg[i] = "38;5;" + strconv.Itoa(i)
			a.bg[i] = "48;5;" + strconv.Itoa(i)
		}
	}
	for i := range a.coverage {
		switch glyphs.Glyph(i).Coverage() {
		case 0:
			a.coverage[i] = -1
		case 1:
			a.coverage[i] = 1
		}
	}
	return a, nil
}

// Write writes grid to w.
func (a *ANSI) Write(w io.Writer, grid *ansify.Grid) error {
	bw := bufio.NewWriter(w)
	for row := 0; row < grid.Rows; row++ {
		a.writeRow(bw, grid.Row(row))
	}
	return bw.Flush()
}

// String returns grid as ANSI text.
func (a *ANSI) String(grid *ansify.Grid) string {
	var sb strings.Builder
	_ = a.Write(&sb, grid)
	return sb.String()
}

type lineWriter interface {
	io.Writer
	io.StringWriter
	WriteRune(r rune) (int, error)
}

func (a *ANSI) writeRow(w lineWriter, cells []ansify.Cell) {
	var currentFg, currentBg string
	for _, cell := range cells {
		fg, bg := a.fg[cell.FG], a.bg[cell.BG]
		switch a.coverage[cell.Glyph] {
		case -1:
			fg = currentFg
		case 1:
			bg = currentBg
		}

		if fg != currentFg || bg != currentBg {
			w.WriteString(formatSGR(fg, currentFg, bg, currentBg))
			currentFg, currentBg = fg, bg
		}
		w.WriteRune(a.glyphs.Rune(cell.Glyph))
	}
	w.WriteString(ESC + "[0m\n")
}

// formatSGR builds an escape sequence setting only the colors that
// changed.
func formatSGR(fg, prevFg, bg, prevBg string) string {
	var code strings.Builder
	code.WriteString(ESC)
	code.WriteByte('[')
	if fg != prevFg {
		code.WriteString(fg)
		if bg != prevBg {
			code.WriteByte(';')
		}
	}
	if bg != prevBg {
		code.WriteString(bg)
	}
	code.WriteByte('m')
	return code.String()
}
