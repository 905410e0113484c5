package ansify

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// tableFile is the persisted form of a palette lookup table. Colors are
// stored alongside so a table is only ever restored onto the palette it
// was computed for.
type tableFile struct {
	Colors  []RGB
	Nearest []uint16
}

// WriteTable serializes the palette's lookup table as gob inside a zstd
// frame. The table is computed first if the palette does not have one.
func (p *Palette) WriteTable(w io.Writer) error {
	table := p.table
	if table == nil {
		table = p.computeTable()
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(tableFile{Colors: p.colors, Nearest: table}); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode palette table: %w", err)
	}
	return zw.Close()
}

// ReadTable restores a table written by WriteTable and returns a copy of
// the palette that uses it. The stored colors must match the palette
// exactly, otherwise ErrInvalidConfig is returned.
func (p *Palette) ReadTable(r io.Reader) (*Palette, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v: %w", err, ErrInvalidConfig)
	}
	defer zr.Close()

	var tf tableFile
	if err := gob.NewDecoder(zr).Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to decode palette table: %v: %w", err, ErrInvalidConfig)
	}
	if len(tf.Nearest) != 1<<24 {
		return nil, fmt.Errorf("palette table has %d entries: %w", len(tf.Nearest), ErrInvalidConfig)
	}
	if len(tf.Colors) != len(p.colors) {
		return nil, fmt.Errorf("palette table is for %d colors, palette has %d: %w",
			len(tf.Colors), len(p.colors), ErrInvalidConfig)
	}
	for i, c := range tf.Colors {
		if c != p.colors[i] {
			return nil, fmt.Errorf("palette table color %d is %s, palette has %s: %w",
				i, c, p.colors[i], ErrInvalidConfig)
		}
	}

	q := *p
	q.table = tf.Nearest
	return &q, nil
}
