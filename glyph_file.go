package ansify

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// BuiltinGlyphs returns a built-in glyph library by name: quadrants,
// halves or full.
func BuiltinGlyphs(name string) (*GlyphLibrary, bool) {
	switch strings.ToLower(name) {
	case "quadrants", "quadrant":
		return QuadrantBlocks(), true
	case "halves", "half":
		return HalfBlocks(), true
	case "full":
		return FullBlocks(), true
	}
	return nil, false
}

// LoadGlyphLibrary loads a glyph library by built-in name, from a YAML
// file (see ParseGlyphLibrary), or by rasterizing the block characters
// of a TrueType font (.ttf) onto an 8x8 grid.
func LoadGlyphLibrary(path string) (*GlyphLibrary, error) {
	if lib, ok := BuiltinGlyphs(path); ok {
		return lib, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glyphs: %v: %w", err, ErrInvalidConfig)
	}

	var lib *GlyphLibrary
	if strings.EqualFold(filepath.Ext(path), ".ttf") {
		lib, err = GlyphsFromFont(data, BlockRunes, FontGlyphWidth, FontGlyphHeight)
	} else {
		lib, err = ParseGlyphLibrary(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if lib.name == "" {
		lib.name = path
	}
	return lib, nil
}

type glyphFile struct {
	Name   string              `yaml:"name"`
	Width  int                 `yaml:"width"`
	Height int                 `yaml:"height"`
	Aspect float64             `yaml:"aspect"`
	Blocks map[string]maskRows `yaml:"blocks"`
}

// maskRows decodes a bitmap given either as rows of booleans or as rows
// of strings, where '#', 'X', 'x', '1' and '█' are foreground and '.',
// '0', '-', '_' and ' ' are background.
type maskRows [][]bool

func (m *maskRows) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: bitmap must be a list of rows", n.Line)
	}
	rows := make([][]bool, len(n.Content))
	for i, row := range n.Content {
		switch row.Kind {
		case yaml.SequenceNode:
			if err := row.Decode(&rows[i]); err != nil {
				return err
			}
		case yaml.ScalarNode:
			for _, r := range row.Value {
				switch r {
				case '#', 'X', 'x', '1', '█':
					rows[i] = append(rows[i], true)
				case '.', '0', '-', '_', ' ':
					rows[i] = append(rows[i], false)
				default:
					return fmt.Errorf("line %d: unexpected %q in bitmap row", row.Line, r)
				}
			}
		default:
			return fmt.Errorf("line %d: bitmap row must be a list or string", row.Line)
		}
	}
	*m = rows
	return nil
}

// ParseGlyphLibrary parses a YAML glyph library:
//
//	width: 2
//	height: 2
//	blocks:
//	  "▀": [[true, true], [false, false]]
//	  "▌": ["#.", "#."]
//
// Glyphs are ordered by code point. An optional aspect key overrides the
// aspect correction.
func ParseGlyphLibrary(data []byte) (*GlyphLibrary, error) {
	var gf glyphFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("failed to parse glyphs: %v: %w", err, ErrInvalidConfig)
	}

	glyphs := make([]Glyph, 0, len(gf.Blocks))
	for key, rows := range gf.Blocks {
		r, size := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || size != len(key) {
			return nil, fmt.Errorf("block key %q is not a single character: %w", key, ErrInvalidConfig)
		}
		if len(rows) != gf.Height {
			return nil, fmt.Errorf("block %q has %d rows, want %d: %w",
				key, len(rows), gf.Height, ErrInvalidConfig)
		}
		mask := make([]bool, 0, gf.Width*gf.Height)
		for y, row := range rows {
			if len(row) != gf.Width {
				return nil, fmt.Errorf("block %q row %d has %d bits, want %d: %w",
					key, y, len(row), gf.Width, ErrInvalidConfig)
			}
			mask = append(mask, row...)
		}
		glyphs = append(glyphs, Glyph{Rune: r, Mask: mask})
	}
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].Rune < glyphs[j].Rune })

	lib, err := NewGlyphLibrary(gf.Width, gf.Height, glyphs)
	if err != nil {
		return nil, err
	}
	lib.name = gf.Name
	if gf.Aspect != 0 {
		return lib.WithAspectCorrection(gf.Aspect)
	}
	return lib, nil
}

// WriteGlyphLibrary writes lib as YAML in the form ParseGlyphLibrary
// reads, one "#." string per mask row. Glyphs sharing a rune collapse to
// the last one.
func WriteGlyphLibrary(w io.Writer, lib *GlyphLibrary) error {
	out := struct {
		Name   string              `yaml:"name,omitempty"`
		Width  int                 `yaml:"width"`
		Height int                 `yaml:"height"`
		Aspect float64             `yaml:"aspect"`
		Blocks map[string][]string `yaml:"blocks"`
	}{
		Name:   lib.name,
		Width:  lib.width,
		Height: lib.height,
		Aspect: lib.aspect,
		Blocks: make(map[string][]string, len(lib.glyphs)),
	}
	for _, g := range lib.glyphs {
		rows := make([]string, lib.height)
		for y := range rows {
			var sb strings.Builder
			for x := 0; x < lib.width; x++ {
				if g.Mask[y*lib.width+x] {
					sb.WriteByte('#')
				} else {
					sb.WriteByte('.')
				}
			}
			rows[y] = sb.String()
		}
		out.Blocks[string(g.Rune)] = rows
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode glyphs: %w", err)
	}
	return enc.Close()
}
