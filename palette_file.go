package ansify

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// BuiltinPalette returns a built-in palette by name: ansi16, ansi256, or
// grayN for an N-step gray ramp (for example gray16).
func BuiltinPalette(name string) (*Palette, bool) {
	switch strings.ToLower(name) {
	case "ansi16":
		return ANSI16(), true
	case "ansi256":
		return ANSI256(), true
	}
	if rest, ok := strings.CutPrefix(strings.ToLower(name), "gray"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 2 && n <= 256 {
			return Grayscale(n), true
		}
	}
	return nil, false
}

// LoadPalette loads a palette by built-in name or from a YAML or JSON
// file. See ParsePalette for the accepted formats.
func LoadPalette(path string) (*Palette, error) {
	if p, ok := BuiltinPalette(path); ok {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %v: %w", err, ErrInvalidConfig)
	}
	p, err := ParsePalette(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.name == "" {
		p.name = path
	}
	return p, nil
}

// ParsePalette parses palette data. JSON is read as YAML. Accepted forms:
//
//	colors: [[0, 0, 0], [255, 0, 0]]        # RGB triples
//	colors: ["#000000", "#ff0000"]          # hex strings
//	{"30": "#000000", "40": "#000000", ...} # ANSI code map
//
// For an ANSI code map, the foreground codes become the palette in code
// order (30-37, 90-97, then 38;5;N).
func ParsePalette(data []byte) (*Palette, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %v: %w", err, ErrInvalidConfig)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("palette must be a mapping: %w", ErrInvalidConfig)
	}
	root := doc.Content[0]

	if hasKey(root, "colors") {
		var pf struct {
			Name   string       `yaml:"name"`
			Colors []colorValue `yaml:"colors"`
		}
		if err := root.Decode(&pf); err != nil {
			return nil, fmt.Errorf("failed to decode palette: %v: %w", err, ErrInvalidConfig)
		}
		colors := make([]RGB, len(pf.Colors))
		for i, c := range pf.Colors {
			colors[i] = RGB(c)
		}
		p, err := NewPalette(colors)
		if err != nil {
			return nil, err
		}
		p.name = pf.Name
		return p, nil
	}

	var codes map[string]string
	if err := root.Decode(&codes); err != nil {
		return nil, fmt.Errorf("failed to decode ANSI color map: %v: %w", err, ErrInvalidConfig)
	}
	return paletteFromAnsiCodes(codes)
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

// paletteFromAnsiCodes builds a palette from the foreground entries of
// an ANSI code to hex color map.
func paletteFromAnsiCodes(codes map[string]string) (*Palette, error) {
	type entry struct {
		code  string
		color RGB
	}
	var fg []entry
	for code, hex := range codes {
		c, err := parseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("code %s: %w", code, err)
		}
		switch {
		case colorIsForeground(code):
			fg = append(fg, entry{code, c})
		case colorIsBackground(code):
		default:
			return nil, fmt.Errorf("unknown color code type: %s: %w", code, ErrInvalidConfig)
		}
	}
	sort.Slice(fg, func(i, j int) bool {
		return parseAnsiCodeForSort(fg[i].code) < parseAnsiCodeForSort(fg[j].code)
	})
	colors := make([]RGB, len(fg))
	for i, e := range fg {
		colors[i] = e.color
	}
	return NewPalette(colors)
}

// colorValue decodes either an [r, g, b] sequence or a hex string.
type colorValue RGB

func (c *colorValue) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var v []int
		if err := n.Decode(&v); err != nil {
			return err
		}
		if len(v) != 3 {
			return fmt.Errorf("line %d: color needs 3 channels, got %d", n.Line, len(v))
		}
		for _, ch := range v {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("line %d: channel %d out of range", n.Line, ch)
			}
		}
		*c = colorValue{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2])}
		return nil
	case yaml.ScalarNode:
		rgb, err := parseHex(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %v", n.Line, err)
		}
		*c = colorValue(rgb)
		return nil
	}
	return fmt.Errorf("line %d: color must be [r, g, b] or \"#rrggbb\"", n.Line)
}

// parseHex parses #rrggbb or #rgb.
func parseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("error parsing color %s: %v: %w", s, err, ErrInvalidConfig)
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// parseAnsiCodeForSort extracts a sortable numeric value from an ANSI
// code string. Basic codes sort by value, 38;5;N after them, and
// 38;2;r;g;b last.
func parseAnsiCodeForSort(code string) int {
	if strings.HasPrefix(code, "38;5;") || strings.HasPrefix(code, "48;5;") {
		parts := strings.Split(code, ";")
		if len(parts) >= 3 {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				return 1000 + n
			}
		}
	}
	if strings.HasPrefix(code, "38;2;") || strings.HasPrefix(code, "48;2;") {
		parts := strings.Split(code, ";")
		if len(parts) >= 5 {
			r, _ := strconv.Atoi(parts[2])
			g, _ := strconv.Atoi(parts[3])
			b, _ := strconv.Atoi(parts[4])
			return 2000000 + r*65536 + g*256 + b
		}
	}
	if n, err := strconv.Atoi(code); err == nil {
		return n
	}
	return 0
}

// colorIsForeground reports whether an SGR code sets the foreground.
func colorIsForeground(code string) bool {
	return strings.HasPrefix(code, "3") ||
		strings.HasPrefix(code, "9") ||
		code == "38"
}

// colorIsBackground reports whether an SGR code sets the background.
func colorIsBackground(code string) bool {
	return strings.HasPrefix(code, "4") ||
		strings.HasPrefix(code, "10") ||
		code == "48"
}
