package render

import (
	"image"
	"image/color"

	"github.com/wbrown/ansify"
)

// Raster draws grid as an image. Each cell becomes a block of
// glyphs.Width()*scale by glyphs.Height()*scale pixels, foreground where
// the glyph's mask is set and background elsewhere. A scale below 1 is
// treated as 1.
func Raster(grid *ansify.Grid, palette *ansify.Palette, glyphs *ansify.GlyphLibrary, scale int) *image.RGBA {
	scale = max(1, scale)
	cw, ch := glyphs.Width()*scale, glyphs.Height()*scale
	img := image.NewRGBA(image.Rect(0, 0, grid.Cols*cw, grid.Rows*ch))

	colors := make([]color.RGBA, palette.Len())
	for i, c := range palette.Colors() {
		colors[i] = c.RGBA()
	}

	for row := 0; row < grid.Rows; row++ {
		for col, cell := range grid.Row(row) {
			drawCell(img, col*cw, row*ch, cell, glyphs, scale, colors[cell.FG], colors[cell.BG])
		}
	}
	return img
}

// drawCell draws one scaled cell with its top-left corner at (x, y).
func drawCell(img *image.RGBA, x, y int, cell ansify.Cell, glyphs *ansify.GlyphLibrary,
	scale int, fg, bg color.RGBA) {
	for py := 0; py < glyphs.Height()*scale; py++ {
		for px := 0; px < glyphs.Width()*scale; px++ {
			c := bg
			if glyphs.Covered(cell.Glyph, px/scale, py/scale) {
				c = fg
			}
			img.SetRGBA(x+px, y+py, c)
		}
	}
}

// Paletted draws grid like Raster but onto a paletted image whose color
// table is the palette itself, so no color is requantized. Palettes with
// more than 256 entries do not fit a paletted image; ok is false for
// them.
func Paletted(grid *ansify.Grid, palette *ansify.Palette, glyphs *ansify.GlyphLibrary, scale int) (img *image.Paletted, ok bool) {
	if palette.Len() > 256 {
		return nil, false
	}
	scale = max(1, scale)
	cw, ch := glyphs.Width()*scale, glyphs.Height()*scale

	pal := make(color.Palette, palette.Len())
	for i, c := range palette.Colors() {
		pal[i] = c.RGBA()
	}
	img = image.NewPaletted(image.Rect(0, 0, grid.Cols*cw, grid.Rows*ch), pal)

	for row := 0; row < grid.Rows; row++ {
		for col, cell := range grid.Row(row) {
			for py := 0; py < ch; py++ {
				off := (row*ch+py)*img.Stride + col*cw
				for px := 0; px < cw; px++ {
					idx := cell.BG
					if glyphs.Covered(cell.Glyph, px/scale, py/scale) {
						idx = cell.FG
					}
					img.Pix[off+px] = uint8(idx)
				}
			}
		}
	}
	return img, true
}
