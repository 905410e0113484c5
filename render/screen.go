package render

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wbrown/ansify"
)

// Screen shows grids on the terminal through tcell.
type Screen struct {
	screen tcell.Screen
	glyphs *ansify.GlyphLibrary
	colors []tcell.Color
	events chan tcell.Event
	quit   chan struct{}
}

// NewScreen takes over the terminal. Close restores it.
func NewScreen(palette *ansify.Palette, glyphs *ansify.GlyphLibrary, mode ColorMode) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	return NewScreenOn(screen, palette, glyphs, mode), nil
}

// NewScreenOn wraps an already initialized tcell screen.
func NewScreenOn(screen tcell.Screen, palette *ansify.Palette, glyphs *ansify.GlyphLibrary, mode ColorMode) *Screen {
	s := &Screen{
		screen: screen,
		glyphs: glyphs,
		colors: make([]tcell.Color, palette.Len()),
		events: make(chan tcell.Event, 16),
		quit:   make(chan struct{}),
	}
	for i, c := range palette.Colors() {
		if mode == Indexed && palette.Len() <= 256 {
			s.colors[i] = tcell.PaletteColor(i)
		} else {
			s.colors[i] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		}
	}
	screen.HideCursor()
	go s.pollEvents()
	return s
}

func (s *Screen) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// Size returns the terminal size in cells.
func (s *Screen) Size() (cols, rows int) { return s.screen.Size() }

// Draw paints grid from the top-left corner and shows it. Cells outside
// the terminal are clipped.
func (s *Screen) Draw(grid *ansify.Grid) {
	s.screen.Clear()
	for row := 0; row < grid.Rows; row++ {
		for col, cell := range grid.Row(row) {
			style := tcell.StyleDefault.
				Foreground(s.colors[cell.FG]).
				Background(s.colors[cell.BG])
			s.screen.SetContent(col, row, s.glyphs.Rune(cell.Glyph), nil, style)
		}
	}
	s.screen.Show()
}

// Run draws every grid received until grids is closed, ctx is done or
// the user quits with Esc, Ctrl-C or q. It returns true if the user
// quit.
func (s *Screen) Run(ctx context.Context, grids <-chan *ansify.Grid) (quit bool) {
	var last *ansify.Grid
	for {
		select {
		case <-ctx.Done():
			return false
		case g, ok := <-grids:
			if !ok {
				return false
			}
			last = g
			s.Draw(g)
		case ev := <-s.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return true
				}
			case *tcell.EventResize:
				s.screen.Sync()
				if last != nil {
					s.Draw(last)
				}
			}
		}
	}
}

// Wait keeps grid on screen until the user quits or ctx is done.
func (s *Screen) Wait(ctx context.Context, grid *ansify.Grid) {
	grids := make(chan *ansify.Grid, 1)
	grids <- grid
	s.Run(ctx, grids)
}

// Close restores the terminal.
func (s *Screen) Close() {
	close(s.quit)
	s.screen.Fini()
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
