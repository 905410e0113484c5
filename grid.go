package ansify

import "time"

// Cell is the conversion result for one character position: palette
// indices for the foreground and background colors, and the index of
// the glyph in its library.
type Cell struct {
	FG    int
	BG    int
	Glyph int
}

// Grid is one converted frame, Rows x Cols cells in row-major order.
type Grid struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// NewGrid allocates a grid of zero cells.
func NewGrid(cols, rows int) *Grid {
	return &Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
}

// At returns the cell at (col, row).
func (g *Grid) At(col, row int) Cell {
	return g.Cells[row*g.Cols+col]
}

// Row returns the cells of one row. The slice aliases the grid.
func (g *Grid) Row(row int) []Cell {
	return g.Cells[row*g.Cols : (row+1)*g.Cols]
}

// TimedGrid is a converted animation frame with its display delay.
type TimedGrid struct {
	Grid  *Grid
	Delay time.Duration
}
