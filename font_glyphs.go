package ansify

import (
	"fmt"
	"image"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	// FontGlyphWidth and FontGlyphHeight are the default bit-grid size
	// used when rasterizing a font.
	FontGlyphWidth  = 8
	FontGlyphHeight = 8
)

// BlockRunes are the block and shade characters rasterized from a font
// by default.
var BlockRunes = []rune{
	' ', '▀', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█',
	'▌', '▍', '▎', '▏', '▐', '░', '▒', '▓',
	'▔', '▕', '▖', '▗', '▘', '▙', '▚', '▛', '▜', '▝', '▞', '▟',
}

// GlyphsFromFont builds a glyph library by rendering each rune of a
// TrueType font onto a width x height grid. Runes the font has no glyph
// for are skipped; a font covering none of them fails with
// ErrInvalidConfig.
func GlyphsFromFont(ttf []byte, runes []rune, width, height int) (*GlyphLibrary, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("glyph dimensions %dx%d: %w", width, height, ErrInvalidConfig)
	}
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v: %w", err, ErrInvalidConfig)
	}

	var glyphs []Glyph
	for _, r := range runes {
		// Index 0 is the font's missing-glyph box; space legitimately
		// renders empty.
		if r != ' ' && f.Index(r) == 0 {
			continue
		}
		glyphs = append(glyphs, Glyph{Rune: r, Mask: renderGlyphMask(f, r, width, height)})
	}

	lib, err := NewGlyphLibrary(width, height, glyphs)
	if err != nil {
		return nil, err
	}
	if name := f.Name(truetype.NameIDFontFullName); name != "" {
		lib.name = name
	}
	return lib, nil
}

// renderGlyphMask renders a single rune to a width x height mask.
//
// The glyph is drawn into an alpha image so anti-aliased coverage is
// kept until thresholding. Pixels above 25% coverage are foreground;
// thin strokes vanish at 50%. The baseline comes from the face metrics
// so descenders are not clipped.
func renderGlyphMask(ttfFont *truetype.Font, r rune, width, height int) []bool {
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    float64(height),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	img := image.NewAlpha(image.Rect(0, 0, width, height))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttfFont)
	ctx.SetFontSize(float64(height))
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	metrics := face.Metrics()
	ascent := metrics.Ascent.Round()
	descent := metrics.Descent.Round()
	baselineY := (height + ascent - descent) / 2

	mask := make([]bool, width*height)
	if _, err := ctx.DrawString(string(r), freetype.Pt(0, baselineY)); err != nil {
		return mask
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if img.AlphaAt(x, y).A > 64 {
				mask[y*width+x] = true
			}
		}
	}
	return mask
}
